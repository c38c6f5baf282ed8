package logger

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/config"
)

// NewLogger builds the application logger. Console output is always on; when
// LogFile is set the same entries are also written to a rotated file.
func NewLogger(cfg *config.Config) (*zap.SugaredLogger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, errors.Wrap(err, "parse log level")
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var fileEncoder, consoleEncoder zapcore.Encoder
	if cfg.LogJSON {
		fileEncoder = zapcore.NewJSONEncoder(encCfg)
		consoleEncoder = zapcore.NewJSONEncoder(encCfg)
	} else {
		fileEncoder = zapcore.NewConsoleEncoder(encCfg)
		colorCfg := encCfg
		colorCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		consoleEncoder = zapcore.NewConsoleEncoder(colorCfg)
	}

	// colour escapes go to the terminal only, never into the rotated file
	cores := []zapcore.Core{zapcore.NewCore(consoleEncoder, zapcore.Lock(os.Stdout), level)}
	if cfg.LogFile != "" {
		cores = append(cores, zapcore.NewCore(fileEncoder, zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    cfg.LogMaxSize,
			MaxBackups: cfg.LogMaxBackups,
			MaxAge:     cfg.LogMaxAge,
			Compress:   cfg.LogCompress,
		}), level))
	}

	core := zapcore.NewTee(cores...)
	return zap.New(core, zap.AddCaller()).Sugar(), nil
}

// NewGormLogger routes gorm's SQL logging through zap.
func NewGormLogger(l *zap.SugaredLogger, level gormlogger.LogLevel) gormlogger.Interface {
	return gormlogger.New(zap.NewStdLog(l.Desugar().Named("gorm")), gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		Colorful:                  false,
		IgnoreRecordNotFoundError: true,
	})
}
