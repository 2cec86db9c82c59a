package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger define a interface para logging estruturado.
// A aplicação (Handler, Service, Repository) deve depender apenas desta interface.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error)
	Fatal(msg string, err error)
}

// ZapLogger é a implementação concreta da interface Logger sobre o zap,
// com saída JSON estruturada.
type ZapLogger struct {
	z *zap.Logger
}

// NewLogger cria e retorna uma nova instância do Logger.
// Níveis aceitos: "debug", "info", "warn", "error". Valores desconhecidos caem para "info".
func NewLogger(level string) Logger {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stdout"}
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
	cfg.EncoderConfig.MessageKey = "message"

	z, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		// Configuração inválida não deve derrubar o serviço: usa o logger de exemplo do zap.
		z = zap.NewExample()
	}
	return &ZapLogger{z: z}
}

// NewNop retorna um Logger que descarta tudo (útil em testes).
func NewNop() Logger {
	return &ZapLogger{z: zap.NewNop()}
}

// toZapFields converte o mapa de campos para zap.Field.
func toZapFields(fields map[string]interface{}) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		out = append(out, zap.Any(k, v))
	}
	return out
}

func (l *ZapLogger) Debug(msg string, fields map[string]interface{}) {
	l.z.Debug(msg, toZapFields(fields)...)
}

func (l *ZapLogger) Info(msg string, fields map[string]interface{}) {
	l.z.Info(msg, toZapFields(fields)...)
}

func (l *ZapLogger) Warn(msg string, fields map[string]interface{}) {
	l.z.Warn(msg, toZapFields(fields)...)
}

func (l *ZapLogger) Error(msg string, err error) {
	l.z.Error(msg, zap.Error(err))
}

// Fatal registra a mensagem e encerra o processo (zap chama os.Exit(1)).
func (l *ZapLogger) Fatal(msg string, err error) {
	l.z.Fatal(msg, zap.Error(err))
}

// Sync descarrega buffers pendentes; chamado no encerramento do main.
func (l *ZapLogger) Sync() error {
	return l.z.Sync()
}
