package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	cli "github.com/spf13/pflag"

	"github.com/lmittmann/tint"
	log "log/slog"

	"nova/internal/bus"
	"nova/internal/config"
	"nova/internal/content"
	"nova/internal/dispatch"
	"nova/internal/httpapi"
	"nova/internal/intent"
	"nova/internal/ipc"
	"nova/internal/persona"
	"nova/internal/proxy"
	"nova/internal/session"
	"nova/internal/skills"
	"nova/internal/system"
	"nova/internal/textio"
	"nova/internal/tts"
	"nova/internal/web"
	"nova/pkg/protocol"
	"nova/pkg/stt"
)

var logLevelMap = map[string]log.Level{
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

func main() {
	config.RegisterFlags(cli.CommandLine)
	cli.Parse()

	cfg, err := config.Load(cli.CommandLine)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	// Stdout belongs to the conversation in text mode.
	log.SetDefault(log.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      logLevelMap[cfg.LogLevel],
		TimeFormat: time.TimeOnly,
	})))

	log.Info("Booting up", "mode", cfg.Mode, "user", cfg.User)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Error("Nova stopped", "err", err)
		os.Exit(1)
	}
}

type core struct {
	d   *dispatch.Dispatcher
	sys *system.Controller
}

func build(cfg config.Config, sink session.Sink) (*core, error) {
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	picker := persona.NewPicker(persona.Default(), persona.NewRand(seed))

	catalog, err := intent.New(intent.Default())
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}

	httpClient, err := proxy.NewHTTPClient(cfg.Proxy, cfg.HTTPTimeout)
	if err != nil {
		return nil, err
	}
	log.Debug("Loaded http client", "proxy", cfg.Proxy)

	sysOpts := []system.Option{
		system.WithPowerActions(cfg.AllowPower),
		system.WithLogger(log.Default()),
	}
	if cfg.ScreenshotDir != "" {
		sysOpts = append(sysOpts, system.WithScreenshotDir(cfg.ScreenshotDir))
	}
	sys := system.New(sysOpts...)

	dispOpts := []dispatch.Option{
		dispatch.WithUser(cfg.User),
		dispatch.WithLogger(log.Default()),
	}
	if sink != nil {
		dispOpts = append(dispOpts, dispatch.WithThinkingNotifier(func(text string) {
			if err := sink.Say(context.Background(), text); err != nil {
				log.Debug("Failed to say thinking phrase", "err", err)
			}
		}))
	}
	d := dispatch.New(catalog, picker, dispOpts...)

	k := skills.New(picker,
		skills.WithSystem(sys),
		skills.WithWeb(web.New(
			web.WithHTTPClient(httpClient),
			web.WithWikipediaURL(cfg.WikipediaURL),
			web.WithSentences(cfg.Sentences),
			web.WithLogger(log.Default()),
		)),
		skills.WithContent(content.New(content.WithPicker(picker))),
	)
	if err := k.Register(d); err != nil {
		return nil, fmt.Errorf("skills: %w", err)
	}
	log.Debug("Bound intents", "count", catalog.Len())

	return &core{d: d, sys: sys}, nil
}

func sessionOptions(cfg config.Config) []session.Option {
	opts := []session.Option{session.WithLogger(log.Default())}
	if cfg.RequireWake {
		opts = append(opts, session.WithWake(session.NewWakeDetector(cfg.WakeWords, 1)))
	}
	return opts
}

func run(ctx context.Context, cfg config.Config) error {
	switch cfg.Mode {
	case config.ModeText:
		sink := textio.NewSink(os.Stdout, "Nova: ")
		c, err := build(cfg, sink)
		if err != nil {
			return err
		}
		src := textio.NewSource(os.Stdin, os.Stdout, "You: ")
		return session.New(c.d, src, sink, sessionOptions(cfg)...).Run(ctx)

	case config.ModeVoice, config.ModeDaemon:
		sink := tts.Speaker{Voice: cfg.Voice}
		c, err := build(cfg, sink)
		if err != nil {
			return err
		}
		listener, cleanup, err := newListener(cfg, c.sys)
		if err != nil {
			return err
		}
		defer cleanup()
		log.Info("Boot up - successful")

		if cfg.Mode == config.ModeVoice {
			return session.New(c.d, listener, sink, sessionOptions(cfg)...).Run(ctx)
		}

		srv, err := ipc.NewServer(cfg.Socket,
			ipc.WithTrigger(listener.Capture),
			ipc.WithHold(listener.CaptureUntil),
			ipc.WithPhraser(c.d),
			ipc.WithLogger(log.Default()),
		)
		if err != nil {
			return fmt.Errorf("ipc server: %w", err)
		}
		defer srv.Close()
		log.Info("Waiting for triggers", "socket", cfg.Socket)
		return session.New(c.d, srv, sink, sessionOptions(cfg)...).Run(ctx)

	case config.ModeBus:
		c, err := build(cfg, nil)
		if err != nil {
			return err
		}
		var srcOpts []bus.Option
		if cfg.WhisperModel != "" {
			tr, err := stt.NewTranscriber(cfg.WhisperModel, stt.Options{Language: cfg.Language})
			if err != nil {
				return fmt.Errorf("whisper: %w", err)
			}
			defer tr.Close()
			srcOpts = append(srcOpts, bus.WithTranscriber(tr))
		}

		ptcl, err := protocol.NewProtocol(ctx, protocol.PtclConfig{
			Shard:  cfg.Shard,
			Url:    cfg.BusURL,
			Reconn: cfg.Reconn,
		})
		if err != nil {
			return fmt.Errorf("bus: %w", err)
		}
		defer ptcl.Close()
		log.Info("Connected to bus", "url", cfg.BusURL, "shard", cfg.Shard)

		if err := ptcl.Transmit(protocol.Message{To: protocol.Broadcast, Kind: protocol.KindAnnounce, Content: "online"}); err != nil {
			log.Warn("Failed to announce", "err", err)
		}
		src := bus.NewSource(ptcl, append(srcOpts, bus.WithPhraser(c.d), bus.WithLogger(log.Default()))...)
		opts := append(sessionOptions(cfg), session.WithoutGreeting())
		return session.New(c.d, src, nil, opts...).Run(ctx)

	case config.ModeHTTP:
		c, err := build(cfg, nil)
		if err != nil {
			return err
		}
		h := httpapi.NewHandler(c.d, log.Default())
		return httpapi.Serve(ctx, cfg.HTTPAddr, h.Router(), log.Default())
	}
	return fmt.Errorf("unknown mode %q", cfg.Mode)
}
