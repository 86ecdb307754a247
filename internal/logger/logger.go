package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New builds a production JSON logger writing to stdout. When filePath is
// non-empty, log output is also written to that file with rotation
// (100 MB per file, 7 days retention).
func New(filePath string) *zap.Logger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	syncer := zapcore.AddSync(os.Stdout)
	if filePath != "" {
		fileSyncer := zapcore.AddSync(&lumberjack.Logger{
			Filename:   filePath,
			MaxSize:    100,
			MaxBackups: 7,
			MaxAge:     7,
		})
		syncer = zapcore.NewMultiWriteSyncer(syncer, fileSyncer)
	}

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), syncer, zap.InfoLevel)
	return zap.New(core)
}
