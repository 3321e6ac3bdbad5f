package open

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEditorCommand(t *testing.T) {
	tests := []struct {
		editor string
		want   []string
	}{
		{"nvim", []string{"nvim", "+12", "/x/chat.txt"}},
		{"/usr/bin/vim", []string{"/usr/bin/vim", "+12", "/x/chat.txt"}},
		{"code", []string{"code", "--goto", "/x/chat.txt:12"}},
		{"less", []string{"less", "+12", "/x/chat.txt"}},
		{"nano", []string{"nano", "+12", "/x/chat.txt"}},
		{"emacs", []string{"emacs", "/x/chat.txt"}},
	}
	for _, tt := range tests {
		t.Run(tt.editor, func(t *testing.T) {
			assert.Equal(t, tt.want, editorCommand(tt.editor, "/x/chat.txt", 12).Args)
		})
	}
}
