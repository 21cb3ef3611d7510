package opt

import "github.com/kbukum/xfer/native"

// Configure identifier categories.
type (
	// String options take text.
	String native.Option
	// Long options take a plain integer.
	Long native.Option
	// Bool options take a boolean, passed natively as 0 or 1.
	Bool native.Option
	// OffT options take a 64-bit size or counter.
	OffT native.Option
	// Duration options take a time span, passed natively in milliseconds.
	Duration native.Option
	// List options take a string list.
	List native.Option
	// WriteCallback options take a function receiving downloaded data.
	WriteCallback native.Option
	// ReadCallback options take a function supplying upload data.
	ReadCallback native.Option
	// ProgressCallback options take a progress function.
	ProgressCallback native.Option
	// DebugCallback options take a verbose trace function.
	DebugCallback native.Option
	// Shared options take a share handle.
	Shared native.Option
	// UnsupportedCallback options take native function pointers that have
	// no safe representation. There is no setter for them.
	UnsupportedCallback native.Option
)

const (
	long     = native.OptionLong
	object   = native.OptionObject
	function = native.OptionFunction
	offT     = native.OptionOffT
)

// Shared options.
const (
	Share Shared = Shared(object + 100)
)

// Callback options.
const (
	WriteFunction  WriteCallback    = WriteCallback(function + 11)
	HeaderFunction WriteCallback    = WriteCallback(function + 79)
	ReadFunction   ReadCallback     = ReadCallback(function + 12)
	XferInfo       ProgressCallback = ProgressCallback(function + 219)
	DebugFunction  DebugCallback    = DebugCallback(function + 94)
)

// Function-pointer options without a setter.
const (
	ProgressFunction        UnsupportedCallback = UnsupportedCallback(function + 56)
	SSLCtxFunction          UnsupportedCallback = UnsupportedCallback(function + 108)
	IoctlFunction           UnsupportedCallback = UnsupportedCallback(function + 130)
	ConvFromNetworkFunction UnsupportedCallback = UnsupportedCallback(function + 142)
	ConvToNetworkFunction   UnsupportedCallback = UnsupportedCallback(function + 143)
	ConvFromUTF8Function    UnsupportedCallback = UnsupportedCallback(function + 144)
	SockoptFunction         UnsupportedCallback = UnsupportedCallback(function + 148)
	OpenSocketFunction      UnsupportedCallback = UnsupportedCallback(function + 163)
	SeekFunction            UnsupportedCallback = UnsupportedCallback(function + 167)
	SSHKeyFunction          UnsupportedCallback = UnsupportedCallback(function + 184)
	InterleaveFunction      UnsupportedCallback = UnsupportedCallback(function + 196)
	ChunkBgnFunction        UnsupportedCallback = UnsupportedCallback(function + 198)
	ChunkEndFunction        UnsupportedCallback = UnsupportedCallback(function + 199)
	FnmatchFunction         UnsupportedCallback = UnsupportedCallback(function + 200)
	CloseSocketFunction     UnsupportedCallback = UnsupportedCallback(function + 208)
	ResolverStartFunction   UnsupportedCallback = UnsupportedCallback(function + 272)
	TrailerFunction         UnsupportedCallback = UnsupportedCallback(function + 283)
)
