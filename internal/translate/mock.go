package translate

import (
	"context"
	"fmt"

	"github.com/voxlate/voxlate/internal/catalog"
)

type mockTranslator struct {
	table map[string]string
	err   error
}

// NewMockTranslator returns a deterministic translator. Entries in table map
// source text to translated text; anything else is echoed with the target
// code prefixed. err, when set, is returned for every call.
func NewMockTranslator(table map[string]string, err error) Translator {
	return &mockTranslator{table: table, err: err}
}

func (m *mockTranslator) Translate(_ context.Context, text string, dest catalog.Code) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	if translated, ok := m.table[text]; ok {
		return translated, nil
	}
	return fmt.Sprintf("[%s] %s", dest, text), nil
}
