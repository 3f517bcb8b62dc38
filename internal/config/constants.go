package config

// ScenarioFileExt is the preferred extension of scenario files.
const ScenarioFileExt = ".yaml"

// ScenarioFileExtensions are all recognized scenario file extensions
var ScenarioFileExtensions = []string{".yaml", ".yml"}

// ConfigFileNames are searched for when no --config flag is given.
var ConfigFileNames = []string{"typeinfer.yaml", "typeinfer.yml"}

// IsTestMode indicates if the program is running under go test.
// Tests set it in TestMain; it also turns on DebugAssertions.
var IsTestMode = false

// DebugAssertions makes internal invariant violations panic instead of
// being logged.
var DebugAssertions = false

// WildcardName is the placeholder for a type argument left to inference.
const WildcardName = "_"

// Built-in type names
const (
	ObjectTypeName     = "Object"
	StringTypeName     = "String"
	BoolTypeName       = "Bool"
	CharTypeName       = "Char"
	ByteTypeName       = "Byte"
	ShortTypeName      = "Short"
	IntTypeName        = "Int"
	LongTypeName       = "Long"
	FloatTypeName      = "Float"
	DoubleTypeName     = "Double"
	VoidTypeName       = "Void"
	ValueTypeName      = "ValueType"
	DelegateTypeName   = "Delegate"
	ExpressionTypeName = "Expression"
	LambdaExprTypeName = "LambdaExpression"
	EnumerableTypeName = "IEnumerable"
	CollectionTypeName = "ICollection"
	ListIfaceTypeName  = "IList"
	ReadOnlyListName   = "IReadOnlyList"
	ComparableTypeName = "IComparable"
	FuncTypeName       = "Func"
	ActionTypeName     = "Action"
)

// MaxDelegateArity is the largest parameter count of the built-in Func and
// Action delegate families.
const MaxDelegateArity = 4

// UnmanagedCallingConv is the only non-default calling convention the type
// parser accepts for function pointers.
const UnmanagedCallingConv = "unmanaged"

// Log levels accepted in configuration files.
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// Color modes accepted in configuration files.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)
