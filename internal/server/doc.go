// Package server implements the MCP (Model Context Protocol) server that
// drives region-mask editors.
//
// A host UI forwards its pointer and key events here; the server keeps one
// editor session per open image and returns edit zones, rendered overlays
// and the annotated prompt for the generation model.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// Notifications (methods under "notifications/") are accepted silently.
//
// # Available Tools
//
// Session Lifecycle:
//   - editor_open: Open an editor on a source image, get a session id
//   - editor_close: Close a session
//   - editor_set_source: Swap the source image and reset the editor
//
// Tools and Input:
//   - editor_set_tool: select, brush, eraser or pan
//   - editor_set_brush: Brush size and colour
//   - editor_key: Shift, Alt and Space down/up
//   - editor_pointer: Batches of press/drag/release/cancel events
//   - editor_clear: Clear selection, mask or both
//   - editor_state: Snapshot of the editor
//   - editor_select_text: Select words found by OCR
//
// Output:
//   - editor_zones: Normalized edit zones
//   - editor_submit: Annotated prompt, zones and images
//   - editor_render: Source with mask, outlines and optional grid
//   - editor_export_mask: Painted layer as a binary PNG
//   - editor_zone_previews: Crops of each zone
//
// # Validation and Errors
//
// Arguments are validated against each tool's inputSchema with gojsonschema
// before the tool runs. Error codes:
//   - -32601: Method not found
//   - -32602: Unknown tool or invalid arguments
//   - -32000: Tool execution failed, including "select or paint an area
//     to edit" when a session has nothing marked
//
// # Sessions
//
// Each session owns its own editor state; sessions share only the decoded
// image cache. Cached images are evicted once no open session refers to
// them.
package server
