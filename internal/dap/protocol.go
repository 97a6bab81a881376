package dap

import "encoding/json"

// ProtocolMessage is the base envelope for all DAP messages.
type ProtocolMessage struct {
	Seq  int    `json:"seq"`
	Type string `json:"type"` // "request", "response", "event"
}

type Request struct {
	ProtocolMessage
	Command   string          `json:"command"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

type Response struct {
	ProtocolMessage
	RequestSeq int             `json:"request_seq"`
	Success    bool            `json:"success"`
	Command    string          `json:"command"`
	Message    string          `json:"message,omitempty"`
	Body       json.RawMessage `json:"body,omitempty"`
}

type Event struct {
	ProtocolMessage
	Event string          `json:"event"`
	Body  json.RawMessage `json:"body,omitempty"`
}

// ErrorResponseBody is the body of a response with success=false, per the
// DAP spec's ErrorResponse message.
type ErrorResponseBody struct {
	Error *ErrorMessage `json:"error,omitempty"`
}

type ErrorMessage struct {
	ID        int               `json:"id"`
	Format    string            `json:"format"`
	Variables map[string]string `json:"variables,omitempty"`
	ShowUser  bool              `json:"showUser,omitempty"`
}

// Capabilities describes what features a debug adapter supports.
type Capabilities struct {
	SupportsConfigurationDoneRequest      bool                     `json:"supportsConfigurationDoneRequest,omitempty"`
	SupportsFunctionBreakpoints           bool                     `json:"supportsFunctionBreakpoints,omitempty"`
	SupportsConditionalBreakpoints        bool                     `json:"supportsConditionalBreakpoints,omitempty"`
	SupportsHitConditionalBreakpoints     bool                     `json:"supportsHitConditionalBreakpoints,omitempty"`
	SupportsEvaluateForHovers             bool                     `json:"supportsEvaluateForHovers,omitempty"`
	ExceptionBreakpointFilters            []ExceptionBreakpointFilter `json:"exceptionBreakpointFilters,omitempty"`
	SupportsStepBack                      bool                     `json:"supportsStepBack,omitempty"`
	SupportsSetVariable                   bool                     `json:"supportsSetVariable,omitempty"`
	SupportsRestartFrame                  bool                     `json:"supportsRestartFrame,omitempty"`
	SupportsGotoTargetsRequest            bool                     `json:"supportsGotoTargetsRequest,omitempty"`
	SupportsStepInTargetsRequest          bool                     `json:"supportsStepInTargetsRequest,omitempty"`
	SupportsCompletionsRequest            bool                     `json:"supportsCompletionsRequest,omitempty"`
	SupportsModulesRequest                bool                     `json:"supportsModulesRequest,omitempty"`
	SupportsRestartRequest                bool                     `json:"supportsRestartRequest,omitempty"`
	SupportsExceptionOptions              bool                     `json:"supportsExceptionOptions,omitempty"`
	SupportsValueFormattingOptions        bool                     `json:"supportsValueFormattingOptions,omitempty"`
	SupportsExceptionInfoRequest          bool                     `json:"supportsExceptionInfoRequest,omitempty"`
	SupportTerminateDebuggee              bool                     `json:"supportTerminateDebuggee,omitempty"`
	SupportsDelayedStackTraceLoading      bool                     `json:"supportsDelayedStackTraceLoading,omitempty"`
	SupportsLoadedSourcesRequest          bool                     `json:"supportsLoadedSourcesRequest,omitempty"`
	SupportsLogPoints                     bool                     `json:"supportsLogPoints,omitempty"`
	SupportsTerminateThreadsRequest       bool                     `json:"supportsTerminateThreadsRequest,omitempty"`
	SupportsSetExpression                 bool                     `json:"supportsSetExpression,omitempty"`
	SupportsTerminateRequest              bool                     `json:"supportsTerminateRequest,omitempty"`
	SupportsDataBreakpoints               bool                     `json:"supportsDataBreakpoints,omitempty"`
	SupportsReadMemoryRequest              bool                     `json:"supportsReadMemoryRequest,omitempty"`
	SupportsDisassembleRequest            bool                     `json:"supportsDisassembleRequest,omitempty"`
	SupportsCancelRequest                 bool                     `json:"supportsCancelRequest,omitempty"`
	SupportsBreakpointLocationsRequest    bool                     `json:"supportsBreakpointLocationsRequest,omitempty"`
	SupportsClipboardContext              bool                     `json:"supportsClipboardContext,omitempty"`
	SupportsSteppingGranularity           bool                     `json:"supportsSteppingGranularity,omitempty"`
	SupportsInstructionBreakpoints        bool                     `json:"supportsInstructionBreakpoints,omitempty"`
	SupportsExceptionFilterOptions        bool                     `json:"supportsExceptionFilterOptions,omitempty"`
	SupportsSingleThreadExecutionRequests bool                     `json:"supportsSingleThreadExecutionRequests,omitempty"`
}

// ExceptionBreakpointFilter is an adapter-advertised exception filter,
// bootstrapped into the graph's ExceptionFilter entity set (SPEC_FULL.md §1.3).
type ExceptionBreakpointFilter struct {
	Filter             string `json:"filter"`
	Label              string `json:"label"`
	Description        string `json:"description,omitempty"`
	Default            bool   `json:"default,omitempty"`
	SupportsCondition  bool   `json:"supportsCondition,omitempty"`
	ConditionDescription string `json:"conditionDescription,omitempty"`
}

type InitializeRequestArguments struct {
	ClientID                     string `json:"clientID,omitempty"`
	ClientName                   string `json:"clientName,omitempty"`
	AdapterID                    string `json:"adapterID"`
	Locale                       string `json:"locale,omitempty"`
	LinesStartAt1                bool   `json:"linesStartAt1,omitempty"`
	ColumnsStartAt1               bool   `json:"columnsStartAt1,omitempty"`
	PathFormat                   string `json:"pathFormat,omitempty"`
	SupportsVariableType         bool   `json:"supportsVariableType,omitempty"`
	SupportsVariablePaging       bool   `json:"supportsVariablePaging,omitempty"`
	SupportsRunInTerminalRequest bool   `json:"supportsRunInTerminalRequest,omitempty"`
	SupportsMemoryReferences     bool   `json:"supportsMemoryReferences,omitempty"`
	SupportsProgressReporting    bool   `json:"supportsProgressReporting,omitempty"`
	SupportsInvalidatedEvent     bool   `json:"supportsInvalidatedEvent,omitempty"`
	SupportsMemoryEvent          bool   `json:"supportsMemoryEvent,omitempty"`
	SupportsArgsCanBeInterpretedByShell bool `json:"supportsArgsCanBeInterpretedByShell,omitempty"`
	SupportsStartDebuggingRequest bool  `json:"supportsStartDebuggingRequest,omitempty"`
	SupportsANSIStyling          bool   `json:"supportsANSIStyling,omitempty"`
}

// LaunchRequestArguments and AttachRequestArguments are intentionally absent
// as Go structs: launch/attach arguments are adapter-specific (internal/adapters
// builds them with sjson, layering adapter-specific and host-supplied fields
// onto a base document), so the Client's Launch/Attach methods accept a raw
// json.RawMessage document rather than a fixed struct shape.

type SetBreakpointsArguments struct {
	Source         Source             `json:"source"`
	Breakpoints    []SourceBreakpoint `json:"breakpoints,omitempty"`
	Lines          []int              `json:"lines,omitempty"`
	SourceModified bool               `json:"sourceModified,omitempty"`
}

type SetBreakpointsResponseBody struct {
	Breakpoints []Breakpoint `json:"breakpoints"`
}

type SetFunctionBreakpointsArguments struct {
	Breakpoints []FunctionBreakpoint `json:"breakpoints"`
}

type SetExceptionBreakpointsArguments struct {
	Filters          []string                 `json:"filters"`
	FilterOptions    []ExceptionFilterOptions `json:"filterOptions,omitempty"`
	ExceptionOptions []ExceptionOptions       `json:"exceptionOptions,omitempty"`
}

type SetExceptionBreakpointsResponseBody struct {
	Breakpoints []Breakpoint `json:"breakpoints,omitempty"`
}

type ContinueArguments struct {
	ThreadID     int  `json:"threadId"`
	SingleThread bool `json:"singleThread,omitempty"`
}

type ContinueResponseBody struct {
	AllThreadsContinued bool `json:"allThreadsContinued,omitempty"`
}

type NextArguments struct {
	ThreadID     int    `json:"threadId"`
	SingleThread bool   `json:"singleThread,omitempty"`
	Granularity  string `json:"granularity,omitempty"`
}

type StepInArguments struct {
	ThreadID     int    `json:"threadId"`
	SingleThread bool   `json:"singleThread,omitempty"`
	TargetID     int    `json:"targetId,omitempty"`
	Granularity  string `json:"granularity,omitempty"`
}

type StepOutArguments struct {
	ThreadID     int    `json:"threadId"`
	SingleThread bool   `json:"singleThread,omitempty"`
	Granularity  string `json:"granularity,omitempty"`
}

type PauseArguments struct {
	ThreadID int `json:"threadId"`
}

type StackTraceArguments struct {
	ThreadID   int `json:"threadId"`
	StartFrame int `json:"startFrame,omitempty"`
	Levels     int `json:"levels,omitempty"`
}

type StackTraceResponseBody struct {
	StackFrames []StackFrame `json:"stackFrames"`
	TotalFrames int          `json:"totalFrames,omitempty"`
}

type ScopesArguments struct {
	FrameID int `json:"frameId"`
}

type ScopesResponseBody struct {
	Scopes []Scope `json:"scopes"`
}

type VariablesArguments struct {
	VariablesReference int    `json:"variablesReference"`
	Filter              string `json:"filter,omitempty"`
	Start               int    `json:"start,omitempty"`
	Count               int    `json:"count,omitempty"`
}

type VariablesResponseBody struct {
	Variables []Variable `json:"variables"`
}

type SetVariableArguments struct {
	VariablesReference int    `json:"variablesReference"`
	Name                string `json:"name"`
	Value               string `json:"value"`
}

type SetVariableResponseBody struct {
	Value               string `json:"value"`
	Type                string `json:"type,omitempty"`
	VariablesReference int    `json:"variablesReference,omitempty"`
	NamedVariables      int    `json:"namedVariables,omitempty"`
	IndexedVariables    int    `json:"indexedVariables,omitempty"`
}

type EvaluateArguments struct {
	Expression string `json:"expression"`
	FrameID     int    `json:"frameId,omitempty"`
	Context     string `json:"context,omitempty"`
}

type EvaluateResponseBody struct {
	Result              string `json:"result"`
	Type                string `json:"type,omitempty"`
	VariablesReference int    `json:"variablesReference"`
	NamedVariables      int    `json:"namedVariables,omitempty"`
	IndexedVariables    int    `json:"indexedVariables,omitempty"`
	MemoryReference     string `json:"memoryReference,omitempty"`
}

type ThreadsResponseBody struct {
	Threads []Thread `json:"threads"`
}

type Source struct {
	Name             string      `json:"name,omitempty"`
	Path             string      `json:"path,omitempty"`
	SourceReference  int         `json:"sourceReference,omitempty"`
	PresentationHint string      `json:"presentationHint,omitempty"`
	Origin           string      `json:"origin,omitempty"`
	Sources          []Source    `json:"sources,omitempty"`
	AdapterData      interface{} `json:"adapterData,omitempty"`
	Checksums        []Checksum  `json:"checksums,omitempty"`
}

type Checksum struct {
	Algorithm string `json:"algorithm"`
	Checksum  string `json:"checksum"`
}

type SourceBreakpoint struct {
	Line         int    `json:"line"`
	Column       int    `json:"column,omitempty"`
	Condition    string `json:"condition,omitempty"`
	HitCondition string `json:"hitCondition,omitempty"`
	LogMessage   string `json:"logMessage,omitempty"`
}

type FunctionBreakpoint struct {
	Name         string `json:"name"`
	Condition    string `json:"condition,omitempty"`
	HitCondition string `json:"hitCondition,omitempty"`
}

type Breakpoint struct {
	ID        int     `json:"id,omitempty"`
	Verified bool    `json:"verified"`
	Message   string  `json:"message,omitempty"`
	Source    *Source `json:"source,omitempty"`
	Line      int     `json:"line,omitempty"`
	Column    int     `json:"column,omitempty"`
	EndLine   int     `json:"endLine,omitempty"`
	EndColumn int     `json:"endColumn,omitempty"`
	Offset    int     `json:"offset,omitempty"`
}

type ExceptionFilterOptions struct {
	FilterID  string `json:"filterId"`
	Condition string `json:"condition,omitempty"`
}

type ExceptionOptions struct {
	Path      []ExceptionPathSegment `json:"path,omitempty"`
	BreakMode string                 `json:"breakMode"`
}

type ExceptionPathSegment struct {
	Negate bool     `json:"negate,omitempty"`
	Names  []string `json:"names"`
}

type Thread struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type StackFrame struct {
	ID                          int         `json:"id"`
	Name                        string      `json:"name"`
	Source                      *Source     `json:"source,omitempty"`
	Line                        int         `json:"line"`
	Column                      int         `json:"column"`
	EndLine                     int         `json:"endLine,omitempty"`
	EndColumn                   int         `json:"endColumn,omitempty"`
	CanRestart                  bool        `json:"canRestart,omitempty"`
	InstructionPointerReference string      `json:"instructionPointerReference,omitempty"`
	ModuleID                    interface{} `json:"moduleId,omitempty"`
	PresentationHint            string      `json:"presentationHint,omitempty"`
}

type Scope struct {
	Name                string  `json:"name"`
	PresentationHint    string  `json:"presentationHint,omitempty"`
	VariablesReference int     `json:"variablesReference"`
	NamedVariables      int     `json:"namedVariables,omitempty"`
	IndexedVariables    int     `json:"indexedVariables,omitempty"`
	Expensive           bool    `json:"expensive"`
	Source              *Source `json:"source,omitempty"`
	Line                int     `json:"line,omitempty"`
	Column              int     `json:"column,omitempty"`
	EndLine             int     `json:"endLine,omitempty"`
	EndColumn           int     `json:"endColumn,omitempty"`
}

type Variable struct {
	Name                string                    `json:"name"`
	Value               string                    `json:"value"`
	Type                string                    `json:"type,omitempty"`
	PresentationHint    *VariablePresentationHint `json:"presentationHint,omitempty"`
	EvaluateName        string                    `json:"evaluateName,omitempty"`
	VariablesReference int                       `json:"variablesReference"`
	NamedVariables      int                       `json:"namedVariables,omitempty"`
	IndexedVariables    int                       `json:"indexedVariables,omitempty"`
	MemoryReference     string                    `json:"memoryReference,omitempty"`
}

type VariablePresentationHint struct {
	Kind       string   `json:"kind,omitempty"`
	Attributes []string `json:"attributes,omitempty"`
	Visibility string   `json:"visibility,omitempty"`
	Lazy       bool     `json:"lazy,omitempty"`
}

type StoppedEventBody struct {
	Reason            string `json:"reason"`
	Description       string `json:"description,omitempty"`
	ThreadID          int    `json:"threadId,omitempty"`
	PreserveFocusHint bool   `json:"preserveFocusHint,omitempty"`
	Text              string `json:"text,omitempty"`
	AllThreadsStopped bool   `json:"allThreadsStopped,omitempty"`
	HitBreakpointIds  []int  `json:"hitBreakpointIds,omitempty"`
}

type ContinuedEventBody struct {
	ThreadID            int  `json:"threadId"`
	AllThreadsContinued bool `json:"allThreadsContinued,omitempty"`
}

type ExitedEventBody struct {
	ExitCode int `json:"exitCode"`
}

type TerminatedEventBody struct {
	Restart interface{} `json:"restart,omitempty"`
}

type ThreadEventBody struct {
	Reason   string `json:"reason"`
	ThreadID int    `json:"threadId"`
}

type OutputEventBody struct {
	Category string      `json:"category,omitempty"`
	Output   string      `json:"output"`
	Group    string      `json:"group,omitempty"`
	Source   *Source     `json:"source,omitempty"`
	Line     int         `json:"line,omitempty"`
	Column   int         `json:"column,omitempty"`
	Data     interface{} `json:"data,omitempty"`
}

type BreakpointEventBody struct {
	Reason     string     `json:"reason"`
	Breakpoint Breakpoint `json:"breakpoint"`
}

type ModuleEventBody struct {
	Reason string `json:"reason"`
	Module Module `json:"module"`
}

type Module struct {
	ID             interface{} `json:"id"`
	Name           string      `json:"name"`
	Path           string      `json:"path,omitempty"`
	IsOptimized    bool        `json:"isOptimized,omitempty"`
	IsUserCode     bool        `json:"isUserCode,omitempty"`
	Version        string      `json:"version,omitempty"`
	SymbolStatus   string      `json:"symbolStatus,omitempty"`
	SymbolFilePath string      `json:"symbolFilePath,omitempty"`
	DateTimeStamp  string      `json:"dateTimeStamp,omitempty"`
	AddressRange   string      `json:"addressRange,omitempty"`
}

type LoadedSourceEventBody struct {
	Reason string `json:"reason"`
	Source Source `json:"source"`
}

type ProcessEventBody struct {
	Name            string `json:"name"`
	SystemProcessID int    `json:"systemProcessId,omitempty"`
	IsLocalProcess  bool   `json:"isLocalProcess,omitempty"`
	StartMethod     string `json:"startMethod,omitempty"`
	PointerSize     int    `json:"pointerSize,omitempty"`
}

type CapabilitiesEventBody struct {
	Capabilities Capabilities `json:"capabilities"`
}

// InvalidatedEventBody is the body of the invalidated event; SPEC_FULL.md
// §9 decides this never triggers a re-sent configurationDone, but the areas
// are still surfaced as a graph-level event for host consumption.
type InvalidatedEventBody struct {
	Areas     []string `json:"areas,omitempty"`
	ThreadID  int      `json:"threadId,omitempty"`
	StackFrameID int   `json:"stackFrameId,omitempty"`
}

type ProgressStartEventBody struct {
	ProgressID  string `json:"progressId"`
	Title       string `json:"title"`
	RequestID   int    `json:"requestId,omitempty"`
	Cancellable bool   `json:"cancellable,omitempty"`
	Message     string `json:"message,omitempty"`
	Percentage  int    `json:"percentage,omitempty"`
}

type ProgressUpdateEventBody struct {
	ProgressID string `json:"progressId"`
	Message    string `json:"message,omitempty"`
	Percentage int    `json:"percentage,omitempty"`
}

type ProgressEndEventBody struct {
	ProgressID string `json:"progressId"`
	Message    string `json:"message,omitempty"`
}

type DisconnectArguments struct {
	Restart           bool `json:"restart,omitempty"`
	TerminateDebuggee bool `json:"terminateDebuggee,omitempty"`
	SuspendDebuggee   bool `json:"suspendDebuggee,omitempty"`
}

type TerminateArguments struct {
	Restart bool `json:"restart,omitempty"`
}

type RestartArguments struct {
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

type SourceArguments struct {
	Source          *Source `json:"source,omitempty"`
	SourceReference int     `json:"sourceReference"`
}

type SourceResponseBody struct {
	Content  string `json:"content"`
	MimeType string `json:"mimeType,omitempty"`
}

// RestartFrameArguments are the arguments for restartFrame, absent from the
// teacher's protocol.go despite being referenced from its stack navigator.
type RestartFrameArguments struct {
	FrameID int `json:"frameId"`
}

// StepInTargetsArguments are the arguments for stepInTargets.
type StepInTargetsArguments struct {
	FrameID int `json:"frameId"`
}

type StepInTargetsResponseBody struct {
	Targets []StepInTarget `json:"targets"`
}

type StepInTarget struct {
	ID               int    `json:"id"`
	Label            string `json:"label"`
	Line             int    `json:"line,omitempty"`
	Column           int    `json:"column,omitempty"`
	EndLine          int    `json:"endLine,omitempty"`
	EndColumn        int    `json:"endColumn,omitempty"`
}

// GotoArguments are the arguments for goto.
type GotoArguments struct {
	ThreadID int `json:"threadId"`
	TargetID int `json:"targetId"`
}

// GotoTargetsArguments are the arguments for gotoTargets.
type GotoTargetsArguments struct {
	Source Source `json:"source"`
	Line   int    `json:"line"`
	Column int    `json:"column,omitempty"`
}

type GotoTargetsResponseBody struct {
	Targets []GotoTarget `json:"targets"`
}

type GotoTarget struct {
	ID                          int    `json:"id"`
	Label                       string `json:"label"`
	Line                        int    `json:"line"`
	Column                      int    `json:"column,omitempty"`
	EndLine                     int    `json:"endLine,omitempty"`
	EndColumn                   int    `json:"endColumn,omitempty"`
	InstructionPointerReference string `json:"instructionPointerReference,omitempty"`
}

// CompletionsArguments are the arguments for completions.
type CompletionsArguments struct {
	FrameID int    `json:"frameId,omitempty"`
	Text    string `json:"text"`
	Column  int    `json:"column"`
	Line    int    `json:"line,omitempty"`
}

type CompletionsResponseBody struct {
	Targets []CompletionItem `json:"targets"`
}

type CompletionItem struct {
	Label           string `json:"label"`
	Text            string `json:"text,omitempty"`
	SortText        string `json:"sortText,omitempty"`
	Detail          string `json:"detail,omitempty"`
	Type            string `json:"type,omitempty"`
	Start           int    `json:"start,omitempty"`
	Length          int    `json:"length,omitempty"`
	SelectionStart  int    `json:"selectionStart,omitempty"`
	SelectionLength int    `json:"selectionLength,omitempty"`
}

// RunInTerminalRequestArguments are the arguments of the runInTerminal
// reverse request sent FROM the adapter TO the client. Absent entirely from
// the teacher's protocol.go, which never implemented any reverse request.
type RunInTerminalRequestArguments struct {
	Kind       string            `json:"kind,omitempty"` // "integrated" or "external"
	Title      string            `json:"title,omitempty"`
	Cwd        string            `json:"cwd"`
	Args       []string          `json:"args"`
	Env        map[string]string `json:"env,omitempty"`
	ArgsCanBeInterpretedByShell bool `json:"argsCanBeInterpretedByShell,omitempty"`
}

type RunInTerminalResponseBody struct {
	ProcessID       int `json:"processId,omitempty"`
	ShellProcessID int `json:"shellProcessId,omitempty"`
}

// StartDebuggingRequestArguments are the arguments of the startDebugging
// reverse request: the adapter asks the client to spawn a child session.
type StartDebuggingRequestArguments struct {
	Configuration map[string]interface{} `json:"configuration"`
	Request       string                 `json:"request"` // "launch" or "attach"
}
