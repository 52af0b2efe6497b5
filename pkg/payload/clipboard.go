package payload

import (
	"log"

	"github.com/atotto/clipboard"
)

// Clipboard stores a payload in both flavors.
type Clipboard interface {
	Write(data []byte, text string) error
	Read() (data []byte, text string, err error)
}

// MemoryClipboard keeps the payload in process.
type MemoryClipboard struct {
	data []byte
	text string
}

func (m *MemoryClipboard) Write(data []byte, text string) error {
	m.data = append([]byte(nil), data...)
	m.text = text
	return nil
}

func (m *MemoryClipboard) Read() ([]byte, string, error) {
	return m.data, m.text, nil
}

// SystemClipboard publishes the plain text flavor on the desktop clipboard
// and keeps the structured flavor in process. When the desktop clipboard
// changed since the last Write, the structured data is considered stale
// and only the desktop text is returned.
type SystemClipboard struct {
	mem MemoryClipboard
}

func (s *SystemClipboard) Write(data []byte, text string) error {
	s.mem.Write(data, text)
	if clipboard.Unsupported {
		return nil
	}
	if err := clipboard.WriteAll(text); err != nil {
		log.Printf("payload: system clipboard write failed: %v", err)
	}
	return nil
}

func (s *SystemClipboard) Read() ([]byte, string, error) {
	if clipboard.Unsupported {
		return s.mem.Read()
	}
	text, err := clipboard.ReadAll()
	if err != nil {
		return s.mem.Read()
	}
	if text != s.mem.text {
		return nil, text, nil
	}
	return s.mem.data, text, nil
}
