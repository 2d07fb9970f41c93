package notify

import (
	"log"
	"sync"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Message is one transient notification.
type Message struct {
	Level  Level
	Title  string
	Detail string
}

// Logger shows notifications through the standard logger.
type Logger struct {
	L *log.Logger
}

func NewLogger(l *log.Logger) *Logger {
	if l == nil {
		l = log.Default()
	}
	return &Logger{L: l}
}

func (n *Logger) show(level Level, title, detail string) {
	if detail == "" {
		n.L.Printf("[%s] %s", level, title)
		return
	}
	n.L.Printf("[%s] %s: %s", level, title, detail)
}

func (n *Logger) Success(title, detail string) { n.show(LevelSuccess, title, detail) }
func (n *Logger) Error(title, detail string)   { n.show(LevelError, title, detail) }
func (n *Logger) Info(title, detail string)    { n.show(LevelInfo, title, detail) }

// Recorder keeps notifications in memory until drained.
type Recorder struct {
	mu   sync.Mutex
	msgs []Message
}

func (r *Recorder) push(level Level, title, detail string) {
	r.mu.Lock()
	r.msgs = append(r.msgs, Message{Level: level, Title: title, Detail: detail})
	r.mu.Unlock()
}

func (r *Recorder) Success(title, detail string) { r.push(LevelSuccess, title, detail) }
func (r *Recorder) Error(title, detail string)   { r.push(LevelError, title, detail) }
func (r *Recorder) Info(title, detail string)    { r.push(LevelInfo, title, detail) }

// Drain returns and clears the recorded messages.
func (r *Recorder) Drain() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.msgs
	r.msgs = nil
	return out
}
