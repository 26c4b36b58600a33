package token

var keywords = map[string]Kind{
	"namespace": KwNamespace,
	"struct":    KwStruct,
	"enum":      KwEnum,
	"server":    KwServer,
	"client":    KwClient,
	"fn":        KwFn,
	"array":     KwArray,
	"option":    KwOption,
	"map":       KwMap,
	"u8":        KwU8,
	"u16":       KwU16,
	"u32":       KwU32,
	"u64":       KwU64,
	"i8":        KwI8,
	"i16":       KwI16,
	"i32":       KwI32,
	"i64":       KwI64,
	"bool":      KwBool,
	"string":    KwString,
	"data":      KwData,
	"timestamp": KwTimestamp,
}

// LookupKeyword reports whether ident is a keyword. Keywords are
// case-sensitive: only the lowercase spelling is recognized.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
