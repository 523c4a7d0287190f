package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/ironsheep/mask-studio-mcp/internal/editor"
	"github.com/ironsheep/mask-studio-mcp/internal/geom"
	"github.com/ironsheep/mask-studio-mcp/internal/imaging"
	"github.com/ironsheep/mask-studio-mcp/internal/ocr"
	"github.com/ironsheep/mask-studio-mcp/internal/selection"
	"github.com/ironsheep/mask-studio-mcp/internal/zone"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "editor_open", "editor_pointer").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// imageCarrier is implemented by results that include images. Each image
// is also attached as an MCP image content block.
type imageCarrier interface {
	images() []*imaging.ImageResult
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}, {"type": "image", ...}]
//	}
//
// Unknown tools and arguments that fail schema validation return -32602.
// Tool execution errors return -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, CodeInvalidParams, "Invalid params", err.Error())
	}
	if _, ok := findTool(params.Name); !ok {
		return s.errorResponse(req.ID, CodeInvalidParams, "Unknown tool", params.Name)
	}
	if err := s.schemas.validate(params.Name, params.Arguments); err != nil {
		s.debugf("Rejected %s arguments: %v", params.Name, err)
		return s.errorResponse(req.ID, CodeInvalidParams, "Invalid arguments", err.Error())
	}

	s.debugf("Calling %s", params.Name)
	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.debugf("%s failed: %v", params.Name, err)
		return s.errorResponse(req.ID, CodeToolFailed, "Tool execution failed", err.Error())
	}

	content := []map[string]interface{}{
		{
			"type": "text",
			"text": mustMarshalJSON(result),
		},
	}
	if ic, ok := result.(imageCarrier); ok {
		for _, img := range ic.images() {
			if img == nil {
				continue
			}
			content = append(content, map[string]interface{}{
				"type":     "image",
				"data":     img.ImageBase64,
				"mimeType": img.MimeType,
			})
		}
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": content,
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	// Session Lifecycle
	case "editor_open":
		return s.handleEditorOpen(args)
	case "editor_close":
		return s.handleEditorClose(args)
	case "editor_set_source":
		return s.handleEditorSetSource(args)

	// Tools and Input
	case "editor_set_tool":
		return s.handleEditorSetTool(args)
	case "editor_set_brush":
		return s.handleEditorSetBrush(args)
	case "editor_key":
		return s.handleEditorKey(args)
	case "editor_pointer":
		return s.handleEditorPointer(args)
	case "editor_clear":
		return s.handleEditorClear(args)
	case "editor_state":
		return s.handleEditorState(args)
	case "editor_select_text":
		return s.handleEditorSelectText(args)

	// Output
	case "editor_zones":
		return s.handleEditorZones(args)
	case "editor_submit":
		return s.handleEditorSubmit(args)
	case "editor_render":
		return s.handleEditorRender(args)
	case "editor_export_mask":
		return s.handleEditorExportMask(args)
	case "editor_zone_previews":
		return s.handleEditorZonePreviews(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

type sessionArgs struct {
	SessionID string `json:"session_id"`
}

// withSession decodes args into dst, looks up the session named by its
// session_id and runs fn with the session locked.
func (s *Server) withSession(args json.RawMessage, dst interface{}, fn func(*session) (interface{}, error)) (interface{}, error) {
	if err := json.Unmarshal(args, dst); err != nil {
		return nil, err
	}
	var ids sessionArgs
	if err := json.Unmarshal(args, &ids); err != nil {
		return nil, err
	}
	sess, err := s.sessions.get(ids.SessionID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return fn(sess)
}

// stateResult is the editor snapshot plus the brush colour.
type stateResult struct {
	SessionID string `json:"session_id"`
	editor.State
	BrushColor string `json:"brush_color"`
}

func snapshot(sess *session) stateResult {
	return stateResult{
		SessionID:  sess.id,
		State:      sess.ed.Snapshot(),
		BrushColor: imaging.Hex(sess.ed.Brush().Color),
	}
}

// === Session Lifecycle Handlers ===

type editorOpenArgs struct {
	Path          string `json:"path"`
	Variant       string `json:"variant"`
	ReferencePath string `json:"reference_path"`
}

type editorOpenResult struct {
	SessionID string              `json:"session_id"`
	Variant   string              `json:"variant"`
	Source    *imaging.SourceInfo `json:"source"`
	Reference *imaging.SourceInfo `json:"reference,omitempty"`
}

func (s *Server) handleEditorOpen(args json.RawMessage) (interface{}, error) {
	var a editorOpenArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	variant, err := editor.ParseVariant(a.Variant)
	if err != nil {
		return nil, err
	}

	brushColor, err := imaging.ParseColor(s.cfg.Brush.Color)
	if err != nil {
		return nil, fmt.Errorf("configured brush color: %w", err)
	}

	info, err := imaging.LoadSourceInfo(s.cache, a.Path)
	if err != nil {
		return nil, err
	}
	src, err := s.cache.Load(a.Path)
	if err != nil {
		s.release(a.Path)
		return nil, err
	}

	var ref *imaging.SourceInfo
	if a.ReferencePath != "" {
		if ref, err = imaging.LoadSourceInfo(s.cache, a.ReferencePath); err != nil {
			s.release(a.Path, a.ReferencePath)
			return nil, fmt.Errorf("reference image: %w", err)
		}
	}

	sess := &session{
		sourcePath:    a.Path,
		referencePath: a.ReferencePath,
		source:        src,
		ed: editor.New(info.Width, info.Height, editor.Options{
			Variant:    variant,
			Brush:      editor.BrushSettings{Size: s.cfg.Brush.Size, Color: brushColor},
			ScanStride: s.cfg.Mask.ScanStride,
		}),
	}
	id := s.sessions.add(sess)
	s.debugf("Opened %s session %s on %s (%dx%d)", variant, id, a.Path, info.Width, info.Height)

	return &editorOpenResult{
		SessionID: id,
		Variant:   variant.String(),
		Source:    info,
		Reference: ref,
	}, nil
}

func (s *Server) handleEditorClose(args json.RawMessage) (interface{}, error) {
	var a sessionArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	sess, ok := s.sessions.remove(a.SessionID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSession, a.SessionID)
	}

	sess.mu.Lock()
	paths := []string{sess.sourcePath, sess.referencePath}
	sess.mu.Unlock()
	s.release(paths...)

	s.debugf("Closed session %s", a.SessionID)
	return map[string]interface{}{
		"session_id": a.SessionID,
		"closed":     true,
	}, nil
}

// release evicts cached images no open session refers to any more.
func (s *Server) release(paths ...string) {
	for _, p := range paths {
		if p != "" && !s.sessions.uses(p) {
			s.cache.Evict(p)
		}
	}
}

type editorSetSourceArgs struct {
	SessionID     string  `json:"session_id"`
	Path          string  `json:"path"`
	ReferencePath *string `json:"reference_path"`
}

type editorSetSourceResult struct {
	Source    *imaging.SourceInfo `json:"source"`
	Reference *imaging.SourceInfo `json:"reference,omitempty"`
	State     stateResult         `json:"state"`
}

func (s *Server) handleEditorSetSource(args json.RawMessage) (interface{}, error) {
	var a editorSetSourceArgs
	var replaced []string
	result, err := s.withSession(args, &a, func(sess *session) (interface{}, error) {
		// Until the swap succeeds, only the new paths are candidates for
		// eviction; the session still holds its old ones.
		replaced = []string{a.Path}
		if a.ReferencePath != nil {
			replaced = append(replaced, *a.ReferencePath)
		}

		info, err := imaging.LoadSourceInfo(s.cache, a.Path)
		if err != nil {
			return nil, err
		}
		src, err := s.cache.Load(a.Path)
		if err != nil {
			return nil, err
		}

		res := &editorSetSourceResult{Source: info}
		refPath := sess.referencePath
		if a.ReferencePath != nil {
			refPath = *a.ReferencePath
		}
		if refPath != "" {
			if res.Reference, err = imaging.LoadSourceInfo(s.cache, refPath); err != nil {
				return nil, fmt.Errorf("reference image: %w", err)
			}
		}

		replaced = []string{sess.sourcePath, sess.referencePath}
		sess.sourcePath = a.Path
		sess.referencePath = refPath
		sess.source = src
		sess.ed.Reset(info.Width, info.Height)
		res.State = snapshot(sess)
		return res, nil
	})
	s.release(replaced...)
	if err != nil {
		return nil, err
	}
	s.debugf("Session %s source is now %s", a.SessionID, a.Path)
	return result, nil
}

// === Tool and Input Handlers ===

type editorSetToolArgs struct {
	Tool string `json:"tool"`
}

func (s *Server) handleEditorSetTool(args json.RawMessage) (interface{}, error) {
	var a editorSetToolArgs
	return s.withSession(args, &a, func(sess *session) (interface{}, error) {
		tool, err := editor.ParseTool(a.Tool)
		if err != nil {
			return nil, err
		}
		sess.ed.SelectTool(tool)
		return snapshot(sess), nil
	})
}

type editorSetBrushArgs struct {
	Size  float64 `json:"size"`
	Color string  `json:"color"`
}

type brushResult struct {
	Size  float64             `json:"size"`
	Color imaging.ColorResult `json:"color"`
}

func (s *Server) handleEditorSetBrush(args json.RawMessage) (interface{}, error) {
	var a editorSetBrushArgs
	return s.withSession(args, &a, func(sess *session) (interface{}, error) {
		var c color.Color
		if a.Color != "" {
			parsed, err := imaging.ParseColor(a.Color)
			if err != nil {
				return nil, err
			}
			c = parsed
		}
		sess.ed.SetBrush(a.Size, c)
		b := sess.ed.Brush()
		return &brushResult{Size: b.Size, Color: imaging.Describe(b.Color)}, nil
	})
}

type editorKeyArgs struct {
	Key    string `json:"key"`
	Action string `json:"action"`
	Repeat bool   `json:"repeat"`
}

type changeResult struct {
	Changed bool        `json:"changed"`
	State   stateResult `json:"state"`
}

func (s *Server) handleEditorKey(args json.RawMessage) (interface{}, error) {
	var a editorKeyArgs
	return s.withSession(args, &a, func(sess *session) (interface{}, error) {
		key := editor.Key(a.Key)
		var changed bool
		switch a.Action {
		case "down":
			changed = sess.ed.KeyDown(key, a.Repeat)
		case "up":
			changed = sess.ed.KeyUp(key)
		default:
			return nil, fmt.Errorf("unknown key action: %s", a.Action)
		}
		return &changeResult{Changed: changed, State: snapshot(sess)}, nil
	})
}

type pointerEventArgs struct {
	Kind    string  `json:"kind"`
	ClientX float64 `json:"client_x"`
	ClientY float64 `json:"client_y"`
}

type editorPointerArgs struct {
	Viewport geom.Viewport      `json:"viewport"`
	Events   []pointerEventArgs `json:"events"`
}

func (s *Server) handleEditorPointer(args json.RawMessage) (interface{}, error) {
	var a editorPointerArgs
	return s.withSession(args, &a, func(sess *session) (interface{}, error) {
		events := make([]editor.PointerEvent, 0, len(a.Events))
		for i, e := range a.Events {
			kind, err := editor.ParseKind(e.Kind)
			if err != nil {
				return nil, fmt.Errorf("event %d: %w", i, err)
			}
			events = append(events, editor.PointerEvent{
				Kind:     kind,
				ClientX:  e.ClientX,
				ClientY:  e.ClientY,
				Viewport: a.Viewport,
			})
		}

		changed := false
		for _, ev := range events {
			if sess.ed.Pointer(ev) {
				changed = true
			}
		}
		return &changeResult{Changed: changed, State: snapshot(sess)}, nil
	})
}

type editorClearArgs struct {
	Target string `json:"target"`
}

func (s *Server) handleEditorClear(args json.RawMessage) (interface{}, error) {
	var a editorClearArgs
	return s.withSession(args, &a, func(sess *session) (interface{}, error) {
		switch a.Target {
		case "selection":
			sess.ed.ClearSelection()
		case "mask":
			sess.ed.ClearMask()
		case "", "all":
			sess.ed.ClearAll()
		default:
			return nil, fmt.Errorf("unknown clear target: %s", a.Target)
		}
		return snapshot(sess), nil
	})
}

func (s *Server) handleEditorState(args json.RawMessage) (interface{}, error) {
	var a sessionArgs
	return s.withSession(args, &a, func(sess *session) (interface{}, error) {
		return snapshot(sess), nil
	})
}

type editorSelectTextArgs struct {
	Mode          string     `json:"mode"`
	Padding       *float64   `json:"padding"`
	Language      string     `json:"language"`
	MinConfidence *float64   `json:"min_confidence"`
	Region        *geom.Rect `json:"region"`
}

type selectTextResult struct {
	Words     []ocr.Word  `json:"words"`
	Committed int         `json:"committed"`
	State     stateResult `json:"state"`
}

func (s *Server) handleEditorSelectText(args json.RawMessage) (interface{}, error) {
	var a editorSelectTextArgs
	return s.withSession(args, &a, func(sess *session) (interface{}, error) {
		mode := selection.Additive
		if a.Mode != "" {
			m, err := selection.ParseMode(a.Mode)
			if err != nil {
				return nil, err
			}
			mode = m
		}
		pad := 4.0
		if a.Padding != nil {
			pad = *a.Padding
		}
		opts := ocr.Options{
			Language:      s.cfg.OCR.Language,
			MinConfidence: s.cfg.OCR.MinConfidence,
		}
		if a.Language != "" {
			opts.Language = a.Language
		}
		if a.MinConfidence != nil {
			opts.MinConfidence = *a.MinConfidence
		}
		if a.Region != nil {
			opts.Region = image.Rect(
				int(math.Floor(a.Region.X)),
				int(math.Floor(a.Region.Y)),
				int(math.Ceil(a.Region.Right())),
				int(math.Ceil(a.Region.Bottom())),
			)
		}

		words, err := ocr.DetectWords(sess.source, opts)
		if err != nil {
			return nil, err
		}
		w, h := sess.ed.Size()
		n := sess.ed.Seed(ocr.Rects(words, pad, w, h), mode)
		s.debugf("Session %s: %d words, %d committed as %s", sess.id, len(words), n, mode)

		return &selectTextResult{Words: words, Committed: n, State: snapshot(sess)}, nil
	})
}

// === Output Handlers ===

type zonesResult struct {
	Zones []zone.Zone `json:"zones"`
	Tags  []string    `json:"tags"`
}

func (s *Server) handleEditorZones(args json.RawMessage) (interface{}, error) {
	var a sessionArgs
	return s.withSession(args, &a, func(sess *session) (interface{}, error) {
		zones, err := sess.ed.Zones()
		if err != nil {
			return nil, err
		}
		tags := make([]string, len(zones))
		for i, z := range zones {
			tags[i] = z.String()
		}
		return &zonesResult{Zones: zones, Tags: tags}, nil
	})
}

type editorSubmitArgs struct {
	Prompt        string `json:"prompt"`
	IncludeImages *bool  `json:"include_images"`
}

type submitResult struct {
	Prompt    string               `json:"prompt"`
	Zones     []zone.Zone          `json:"zones"`
	Source    *imaging.ImageResult `json:"source,omitempty"`
	Reference *imaging.ImageResult `json:"reference,omitempty"`
}

func (r *submitResult) images() []*imaging.ImageResult {
	return []*imaging.ImageResult{r.Source, r.Reference}
}

func (s *Server) handleEditorSubmit(args json.RawMessage) (interface{}, error) {
	var a editorSubmitArgs
	return s.withSession(args, &a, func(sess *session) (interface{}, error) {
		req, err := sess.ed.Submit(a.Prompt)
		if err != nil {
			if errors.Is(err, zone.ErrNoRegion) {
				s.debugf("Session %s submitted with nothing marked", sess.id)
			}
			return nil, err
		}

		res := &submitResult{Prompt: req.Prompt, Zones: req.Zones}
		if a.IncludeImages != nil && !*a.IncludeImages {
			return res, nil
		}
		if res.Source, err = imaging.EncodePNG(sess.source); err != nil {
			return nil, err
		}
		if sess.referencePath != "" {
			ref, err := s.cache.Load(sess.referencePath)
			if err != nil {
				return nil, fmt.Errorf("reference image: %w", err)
			}
			if res.Reference, err = imaging.EncodePNG(ref); err != nil {
				return nil, err
			}
		}
		return res, nil
	})
}

type editorRenderArgs struct {
	Grid     bool  `json:"grid"`
	ShowMask *bool `json:"show_mask"`
}

type renderResult struct {
	imaging.ImageResult
	Selection int  `json:"selection_count"`
	Grid      bool `json:"grid"`
}

func (r *renderResult) images() []*imaging.ImageResult {
	return []*imaging.ImageResult{&r.ImageResult}
}

func (s *Server) handleEditorRender(args json.RawMessage) (interface{}, error) {
	var a editorRenderArgs
	return s.withSession(args, &a, func(sess *session) (interface{}, error) {
		sel := sess.ed.Selection()
		opts := imaging.RenderOptions{
			Selection:    sel,
			OutlineColor: imaging.ContrastColor(sess.ed.Brush().Color),
			Grid:         a.Grid,
		}
		if r, ok := sess.ed.Provisional(); ok {
			opts.Provisional = &r
		}
		var mask image.Image
		if a.ShowMask == nil || *a.ShowMask {
			mask = sess.ed.Surface().Image()
		}

		enc, err := imaging.EncodePNG(imaging.Render(sess.source, mask, opts))
		if err != nil {
			return nil, err
		}
		return &renderResult{ImageResult: *enc, Selection: len(sel), Grid: a.Grid}, nil
	})
}

type maskResult struct {
	imaging.ImageResult
	Painted bool `json:"painted"`
}

func (r *maskResult) images() []*imaging.ImageResult {
	return []*imaging.ImageResult{&r.ImageResult}
}

func (s *Server) handleEditorExportMask(args json.RawMessage) (interface{}, error) {
	var a sessionArgs
	return s.withSession(args, &a, func(sess *session) (interface{}, error) {
		surface := sess.ed.Surface()
		enc, err := imaging.EncodePNG(surface.Mask())
		if err != nil {
			return nil, err
		}
		_, painted := surface.OpaqueBounds(1)
		return &maskResult{ImageResult: *enc, Painted: painted}, nil
	})
}

type editorZonePreviewsArgs struct {
	MaxSize int    `json:"max_size"`
	Prompt  string `json:"prompt"`
}

type previewsResult struct {
	// Prompt is the given annotated prompt with its tags removed.
	Prompt   string                `json:"prompt,omitempty"`
	Previews []imaging.ZonePreview `json:"previews"`
}

func (r *previewsResult) images() []*imaging.ImageResult {
	out := make([]*imaging.ImageResult, len(r.Previews))
	for i := range r.Previews {
		out[i] = &r.Previews[i].Image
	}
	return out
}

func (s *Server) handleEditorZonePreviews(args json.RawMessage) (interface{}, error) {
	var a editorZonePreviewsArgs
	return s.withSession(args, &a, func(sess *session) (interface{}, error) {
		res := &previewsResult{}
		var zones []zone.Zone
		if a.Prompt != "" {
			res.Prompt, zones = zone.Parse(a.Prompt)
			if len(zones) == 0 {
				return nil, errors.New("prompt carries no EDIT_ZONE tags")
			}
		} else {
			var err error
			if zones, err = sess.ed.Zones(); err != nil {
				return nil, err
			}
		}
		size := a.MaxSize
		if size == 0 {
			size = s.cfg.Preview.MaxSize
		}
		previews, err := imaging.ZonePreviews(sess.source, zones, size)
		if err != nil {
			return nil, err
		}
		res.Previews = previews
		return res, nil
	})
}
