package bootstrap

import (
	"jonx/internal/application/service"
	"jonx/internal/domain"
	"jonx/internal/platform/codec"
	"jonx/internal/platform/compress"
	"jonx/internal/platform/config"
	"jonx/internal/platform/jonxfile"
	"jonx/internal/platform/jsoncodec"
	"jonx/internal/platform/messaging/zeromq/publisher"
	"jonx/internal/platform/server"
	"jonx/internal/platform/server/handler/convert"

	"go.uber.org/dig"
	"go.uber.org/zap"
)

func Run() (bool, error) {
	container := dig.New()
	serviceConstructors := []interface{}{
		config.LoadConfig,
		logger,
		jsonCodec,
		compressor,
		decompressor,
		codec.New,
		jonxfile.NewWriter,
		jonxfile.NewOpener,
		conversionPublisher,
		service.NewEncodeService,
		service.NewDecodeService,
		service.NewPreviewService,
		convert.NewConvertHandler,
		httpServer,
	}
	for _, constructor := range serviceConstructors {
		if err := container.Provide(constructor); err != nil {
			return false, err
		}
	}
	err := container.Invoke(func(s server.Server) error {
		return s.Run()
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func logger() (*zap.Logger, error) {
	return zap.NewProduction()
}

func jsonCodec() domain.JsonCodec {
	return jsoncodec.New()
}

func compressor() domain.Compressor {
	return compress.NewZstdCompressor()
}

func decompressor() domain.Decompressor {
	return compress.NewZstdDecompressor()
}

func conversionPublisher(cfg config.Config, log *zap.Logger) domain.ConversionPublisher {
	if cfg.PubEndpoint == "" {
		return publisher.NewNoopPublisher()
	}
	pub, err := publisher.NewZeroMQConversionPublisher(cfg.PubEndpoint)
	if err != nil {
		log.Warn("conversion publisher disabled", zap.String("endpoint", cfg.PubEndpoint), zap.Error(err))
		return publisher.NewNoopPublisher()
	}
	log.Info("conversion publisher listening", zap.String("endpoint", cfg.PubEndpoint))
	return pub
}

func httpServer(cfg config.Config, handler *convert.ConvertHandler, log *zap.Logger) server.Server {
	return server.NewServer(cfg.ServerHost, cfg.ServerPort, handler, log)
}
