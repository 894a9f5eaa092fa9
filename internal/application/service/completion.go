package service

import (
	"file-explorer/internal/application/usecase"
	"file-explorer/internal/domain/entity"
	"file-explorer/internal/domain/port"
	"strings"
)

// Complete returns completion candidates for the text before the cursor.
// The first word completes to command names, later words to paths relative to
// the current directory.
func (s *ExplorerService) Complete(textBeforeCursor string) []port.Completion {
	text := strings.TrimLeft(textBeforeCursor, " \t")
	if !strings.ContainsAny(text, " \t") {
		return completeCommands(text)
	}

	word := text[strings.LastIndexAny(text, " \t")+1:]
	return s.completePath(strings.TrimPrefix(word, `"`))
}

func completeCommands(prefix string) []port.Completion {
	var out []port.Completion
	for _, spec := range usecase.Commands() {
		for _, name := range append([]string{spec.Name}, spec.Aliases...) {
			if strings.HasPrefix(name, prefix) {
				out = append(out, port.Completion{Text: name, Description: spec.Summary})
			}
		}
	}
	return out
}

// completePath lists the directory part of word and keeps the entries whose name
// starts with the rest. Hidden entries are offered only once a dot is typed.
func (s *ExplorerService) completePath(word string) []port.Completion {
	dirPart, namePrefix := "", word
	if i := strings.LastIndex(word, "/"); i >= 0 {
		dirPart, namePrefix = word[:i+1], word[i+1:]
	}

	entries, err := s.fileManager.List(s.session.Resolve(dirPart))
	if err != nil {
		return nil
	}

	var out []port.Completion
	for _, e := range entries {
		if !strings.HasPrefix(e.Name, namePrefix) {
			continue
		}
		if strings.HasPrefix(e.Name, ".") && !strings.HasPrefix(namePrefix, ".") {
			continue
		}
		text := dirPart + e.Name
		if e.Kind == entity.KindDirectory {
			text += "/"
		}
		out = append(out, port.Completion{Text: text, Description: e.Kind.String()})
	}
	return out
}
