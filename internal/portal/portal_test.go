package portal

import (
	"encoding/json"
	"testing"

	"filechooser/internal/errors"
	"filechooser/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterTupleForm(t *testing.T) {
	f := FileFilter{Label: "Images", Patterns: []Pattern{
		{Kind: GlobPattern, Value: "*.png"},
		{Kind: MimePattern, Value: "image/jpeg"},
	}}
	data, err := json.Marshal(f)
	require.NoError(t, err)
	assert.JSONEq(t, `["Images", [[0, "*.png"], [1, "image/jpeg"]]]`, string(data))

	var back FileFilter
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, f, back)
}

func TestFilterRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"object", `{"label": "x"}`},
		{"short tuple", `["x"]`},
		{"label type", `[1, []]`},
		{"pattern not pair", `["x", [[0]]]`},
		{"unknown kind", `["x", [[7, "*"]]]`},
		{"value type", `["x", [[0, 3]]]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f FileFilter
			err := json.Unmarshal([]byte(tt.json), &f)
			require.Error(t, err)
			assert.True(t, errors.IsSerialization(err), "got %v", err)
		})
	}
}

func TestMatcher(t *testing.T) {
	m, err := FileFilter{Label: "Mixed", Patterns: []Pattern{
		{Kind: GlobPattern, Value: "*.{png,gif}"},
		{Kind: MimePattern, Value: "text/*"},
		{Kind: MimePattern, Value: "Application/PDF"},
	}}.Compile()
	require.NoError(t, err)
	assert.Equal(t, "Mixed", m.Label())

	assert.True(t, m.Match("a.png", nil))
	assert.True(t, m.Match("b.gif", nil))
	assert.True(t, m.Match("notes", []string{"application/x-foo", "text/plain"}))
	assert.True(t, m.Match("doc", []string{"application/pdf"}))
	assert.False(t, m.Match("a.jpg", []string{"image/jpeg"}))
	assert.False(t, m.Match("x", []string{"text"}), "mime wildcard does not cross the slash")

	var none *Matcher
	assert.True(t, none.Match("anything", nil))

	all, err := DefaultFilter().Compile()
	require.NoError(t, err)
	assert.True(t, all.Match(".hidden", nil))
}

func TestCompileRejectsBadGlob(t *testing.T) {
	_, err := NewGlobFilter("bad", "[unclosed").Compile()
	require.Error(t, err)
	assert.True(t, errors.IsSerialization(err))
}

func TestFilePathWireForm(t *testing.T) {
	p := NewFilePath("/tmp/a")
	assert.Equal(t, []byte("/tmp/a\x00"), p.Bytes())

	got, err := DecodeFilePath([]byte("/tmp/a\x00"))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/a", got.String())

	for _, bad := range [][]byte{nil, []byte("/tmp/a"), []byte("/tm\x00p\x00")} {
		_, err := DecodeFilePath(bad)
		assert.True(t, errors.IsSerialization(err), "%q", bad)
	}

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Equal(t, "[47,116,109,112,47,97,0]", string(data))

	var back FilePath
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, p, back)

	assert.Error(t, json.Unmarshal([]byte("[47,300,0]"), &back))
	assert.Error(t, json.Unmarshal([]byte(`"/tmp"`), &back))
}

func TestChoiceTupleForm(t *testing.T) {
	c := Choice{ID: "encoding", Label: "Encoding", Pairs: [][2]string{{"utf8", "UTF-8"}, {"latin1", "Latin-1"}}, Initial: "utf8"}
	data, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, `["encoding", "Encoding", [["utf8", "UTF-8"], ["latin1", "Latin-1"]], "utf8"]`, string(data))

	var back Choice
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, c, back)
	assert.False(t, back.IsCheckbox())

	box := Choice{ID: "ro", Label: "Read only", Initial: "false"}
	data, err = json.Marshal(box)
	require.NoError(t, err)
	assert.JSONEq(t, `["ro", "Read only", [], "false"]`, string(data))
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, back.IsCheckbox())

	assert.Error(t, json.Unmarshal([]byte(`["", "x", [], ""]`), &back))
	assert.Error(t, json.Unmarshal([]byte(`["a", "x"]`), &back))
}

func TestDecodeOptions(t *testing.T) {
	payload := `{
		"type": "open_file",
		"handle_token": "t1",
		"accept_label": "Pick",
		"multiple": true,
		"filters": [["Images", [[1, "image/*"]]], ["Text", [[0, "*.txt"]]]],
		"current_filter": ["Text", [[0, "*.txt"]]],
		"choices": [["ro", "Read only", [], "true"]],
		"current_folder": [47, 116, 109, 112, 0]
	}`
	opts, err := Decode([]byte(payload))
	require.NoError(t, err)

	assert.Equal(t, OpenFile, opts.Kind)
	assert.True(t, opts.Modal, "defaults survive")
	assert.Equal(t, "Pick", opts.AcceptLabel)
	assert.Equal(t, types.MultiSelect, opts.SelectionMode())
	assert.Equal(t, types.FileOnly, opts.MatchKind())
	require.Len(t, opts.AllFilters(), 3)
	assert.Equal(t, "All files: (*)", opts.AllFilters()[0].Label)
	assert.Equal(t, "Text", opts.InitialFilter().Label)
	assert.Equal(t, "/tmp", opts.StartFolder("/home"))
	require.Len(t, opts.Choices, 1)
	assert.True(t, opts.Choices[0].IsCheckbox())
}

func TestDecodeOptionsDefaults(t *testing.T) {
	opts, err := Decode([]byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, DefaultOptions(), opts)
	assert.Equal(t, types.SingleSelect, opts.SelectionMode())
	assert.Equal(t, "All files: (*)", opts.InitialFilter().Label)
	assert.Equal(t, "/home", opts.StartFolder("/home"))

	opts, err = Decode([]byte(`{"directory": true}`))
	require.NoError(t, err)
	assert.Equal(t, types.DirectoryOnly, opts.MatchKind())
}

func TestDecodeSaveFile(t *testing.T) {
	opts, err := Decode([]byte(`{"type": "save_file", "current_file": [47, 97, 47, 98, 46, 116, 120, 116, 0]}`))
	require.NoError(t, err)
	assert.Equal(t, SaveFile, opts.Kind)
	assert.Equal(t, "/a", opts.StartFolder("/home"))
	assert.Equal(t, "b.txt", opts.SuggestedName())

	opts.CurrentName = "c.txt"
	assert.Equal(t, "c.txt", opts.SuggestedName())
}

func TestDecodeOptionsErrors(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"not json", `{`},
		{"unknown member", `{"bogus": 1}`},
		{"wrong type", `{"multiple": "yes"}`},
		{"unknown request", `{"type": "print"}`},
		{"save multiple", `{"type": "save_file", "multiple": true}`},
		{"bad path", `{"current_folder": [47, 116]}`},
		{"bad filter", `{"filters": [["x", [[0, "[a"]]]]}`},
		{"duplicate choice", `{"choices": [["a", "A", [], ""], ["a", "B", [], ""]]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.payload))
			require.Error(t, err)
			assert.True(t, errors.IsSerialization(err), "got %v", err)
		})
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	folder := NewFilePath("/srv")
	opts := DefaultOptions()
	opts.Multiple = true
	opts.Filters = []FileFilter{NewMimeFilter("Images", "image/*")}
	opts.CurrentFolder = &folder

	data, err := Encode(opts)
	require.NoError(t, err)
	back, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, opts, back)
}

func TestFileURI(t *testing.T) {
	assert.Equal(t, "file:///tmp/a.txt", FileURI("/tmp/a.txt"))
	assert.Equal(t, "file:///tmp/with%20space", FileURI("/tmp/with space"))
}
