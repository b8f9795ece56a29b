package xlog

import (
	"go.uber.org/zap/zapcore"
)

type coreConfig struct {
	lvlEnabler zapcore.LevelEnabler
	lvlEnc     zapcore.LevelEncoder
	tsEnc      zapcore.TimeEncoder
	ws         zapcore.WriteSyncer
	enc        func(cfg zapcore.EncoderConfig) zapcore.Encoder
}

var consoleCoreEncoderCfg = zapcore.EncoderConfig{
	MessageKey:    "msg",
	LevelKey:      "lvl",
	TimeKey:       "ts",
	CallerKey:     "callAt",
	EncodeCaller:  zapcore.ShortCallerEncoder,
	FunctionKey:   "fn",
	NameKey:       "component",
	EncodeName:    zapcore.FullNameEncoder,
	StacktraceKey: coreKeyIgnored,
}

// Component loggers (fx, ...) do not care about the caller.
var componentCoreEncoderCfg = zapcore.EncoderConfig{
	MessageKey:    "msg",
	LevelKey:      "lvl",
	TimeKey:       "ts",
	CallerKey:     coreKeyIgnored,
	EncodeCaller:  zapcore.ShortCallerEncoder,
	FunctionKey:   coreKeyIgnored,
	NameKey:       "component",
	EncodeName:    zapcore.FullNameEncoder,
	StacktraceKey: coreKeyIgnored,
}

func (cc *coreConfig) build(encCfg zapcore.EncoderConfig) zapcore.Core {
	encCfg.EncodeLevel = cc.lvlEnc
	encCfg.EncodeTime = cc.tsEnc
	return zapcore.NewCore(cc.enc(encCfg), cc.ws, cc.lvlEnabler)
}

func newConsoleCore(cc *coreConfig) zapcore.Core {
	return cc.build(consoleCoreEncoderCfg)
}

func newComponentCore(cc *coreConfig) zapcore.Core {
	return cc.build(componentCoreEncoderCfg)
}
