package mcp

import "github.com/mark3labs/mcp-go/mcp"

var extractToolDef = mcp.NewTool(
	"docgen_extract",
	mcp.WithDescription("Extract the annotation records (functions, macros, constants, structures, projects, categories) from C source files."),
	mcp.WithArray("paths",
		mcp.Required(),
		mcp.WithStringItems(),
		mcp.Description("Source files to read, in order")),
	mcp.WithReadOnlyHintAnnotation(true),
)

var compileToolDef = mcp.NewTool(
	"docgen_compile",
	mcp.WithDescription("Compile annotation comments into the intermediate group/section protocol."),
	mcp.WithArray("paths",
		mcp.Required(),
		mcp.WithStringItems(),
		mcp.Description("Source files to read, in order")),
	mcp.WithReadOnlyHintAnnotation(true),
)

var renderToolDef = mcp.NewTool(
	"docgen_render",
	mcp.WithDescription("Render manual pages or Markdown documents from annotated sources without writing files."),
	mcp.WithArray("paths",
		mcp.Required(),
		mcp.WithStringItems(),
		mcp.Description("Source files to read, in order")),
	mcp.WithString("format",
		mcp.Description("Output format: manpage or markdown (default from config)")),
	mcp.WithString("section",
		mcp.Description("Manual section (default from config, usually 3)")),
	mcp.WithBoolean("use_index",
		mcp.Description("Resolve embeds missing from the inputs through the symbol index")),
	mcp.WithReadOnlyHintAnnotation(true),
)

var checkToolDef = mcp.NewTool(
	"docgen_check",
	mcp.WithDescription("Validate annotated sources end to end and list the files generate would write."),
	mcp.WithArray("paths",
		mcp.Required(),
		mcp.WithStringItems(),
		mcp.Description("Source files to read, in order")),
	mcp.WithString("format",
		mcp.Description("Output format: manpage or markdown (default from config)")),
	mcp.WithBoolean("use_index",
		mcp.Description("Resolve embeds missing from the inputs through the symbol index")),
	mcp.WithReadOnlyHintAnnotation(true),
)

var indexToolDef = mcp.NewTool(
	"docgen_index",
	mcp.WithDescription("Store the signatures of embeddable records in the symbol index, replacing earlier entries from the same files."),
	mcp.WithArray("paths",
		mcp.Required(),
		mcp.WithStringItems(),
		mcp.Description("Source files to index")),
	mcp.WithDestructiveHintAnnotation(false),
)

var lookupToolDef = mcp.NewTool(
	"docgen_lookup",
	mcp.WithDescription("Look up one symbol by name, or list indexed symbols with optional filters."),
	mcp.WithString("name",
		mcp.Description("Exact symbol name; when set, filters below are ignored")),
	mcp.WithString("kind",
		mcp.Description("function, macro_function, constant or structure")),
	mcp.WithString("prefix",
		mcp.Description("Name prefix filter for listing")),
	mcp.WithString("file",
		mcp.Description("Only symbols indexed from this file")),
	mcp.WithNumber("limit",
		mcp.Description("Maximum results (1-100, default: 20)")),
	mcp.WithNumber("offset",
		mcp.Description("Results to skip")),
	mcp.WithReadOnlyHintAnnotation(true),
)
