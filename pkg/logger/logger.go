package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config opciones del logger, tomadas de APP_ENV y LOG_LEVEL.
type Config struct {
	Env   string // development -> consola coloreada; cualquier otro -> JSON
	Level string // trace, debug, info, warn, error (inválido cae a info)
}

// Logger envuelve zerolog para inyectarlo en main y mantener un único punto
// de construcción. Los casos de uso no loguean; el logging vive en el arranque
// y en la capa HTTP.
type Logger struct {
	zl zerolog.Logger
}

// New construye el logger del servicio. En development escribe consola legible
// para trabajar contra la API local; en producción JSON por stdout, que es lo
// que recogen los agregadores.
func New(cfg Config) *Logger {
	var w io.Writer = os.Stdout
	if cfg.Env == "development" {
		w = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	zl := zerolog.New(w).Level(parseLevel(cfg.Level)).With().Timestamp().Logger()

	// Las librerías que usan el logger global de zerolog escriben aquí también
	log.Logger = zl

	return &Logger{zl: zl}
}

func parseLevel(s string) zerolog.Level {
	level, err := zerolog.ParseLevel(s)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

func (l *Logger) Trace() *zerolog.Event { return l.zl.Trace() }
func (l *Logger) Debug() *zerolog.Event { return l.zl.Debug() }
func (l *Logger) Info() *zerolog.Event  { return l.zl.Info() }
func (l *Logger) Warn() *zerolog.Event  { return l.zl.Warn() }
func (l *Logger) Error() *zerolog.Event { return l.zl.Error() }
func (l *Logger) Fatal() *zerolog.Event { return l.zl.Fatal() }

// With crea un sublogger con campos fijos (p. ej. el componente que loguea).
func (l *Logger) With() zerolog.Context {
	return l.zl.With()
}

// Zerolog expone el logger interno para la API directa de zerolog.
func (l *Logger) Zerolog() zerolog.Logger {
	return l.zl
}
