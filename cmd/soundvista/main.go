package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/soundvista/soundvista/internal/audio"
	"github.com/soundvista/soundvista/internal/export"
	"github.com/soundvista/soundvista/internal/pattern"
	"github.com/soundvista/soundvista/internal/session"
	"github.com/soundvista/soundvista/internal/web"
)

func main() {
	var (
		filePath   = flag.String("file", "", "Audio file to visualize (wav|mp3|ogg|flac); empty uses the microphone")
		play       = flag.Bool("play", false, "Play the file through the speakers while rendering")
		deviceName = flag.String("audio-device", "", "Optional PortAudio device name (substring match)")
		width      = flag.Int("width", 800, "Frame width in pixels")
		height     = flag.Int("height", 600, "Frame height in pixels")
		targetFPS  = flag.Float64("fps", 60, "Target frames per second")
		fftSize    = flag.Int("fft-size", 2048, "FFT window size (power of two recommended)")
		style      = flag.String("style", "mandala", "Pattern style (mandala|inkflow|neongrid)")
		palette    = flag.String("palette", "cosmic", "Color palette name")
		seed       = flag.Uint("seed", 1, "Random seed; same seed reproduces the same visuals")
		webPort    = flag.Int("port", 0, "Control server port (0 disables)")
		headless   = flag.Bool("headless", false, "Run without a display window")
		debug      = flag.Bool("debug", false, "Enable verbose logging")
		listDevs   = flag.Bool("list-audio-devices", false, "List available audio input devices and exit")

		exportPath   = flag.String("export", "", "Render one frame from -file to this image and exit")
		exportAt     = flag.Float64("export-at", 0, "Track position in seconds for -export")
		exportFormat = flag.String("export-format", "png", "Export format (png|jpg|webp)")
		exportSS     = flag.Int("supersample", 2, "Super-sampling factor for -export")
	)

	flag.Parse()

	if *width <= 0 || *height <= 0 {
		log.Fatalf("invalid dimensions: width=%d height=%d", *width, *height)
	}
	if *targetFPS <= 0 {
		log.Fatalf("fps must be positive (got %.2f)", *targetFPS)
	}
	if *fftSize <= 0 {
		log.Fatalf("fft-size must be positive (got %d)", *fftSize)
	}

	logger := log.New(os.Stdout, "[soundvista] ", log.LstdFlags)
	if !*debug {
		logger.SetOutput(os.Stderr)
		logger.SetFlags(0)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	needAudio := *filePath == "" || *listDevs || *play
	if needAudio {
		if err := audio.Initialize(); err != nil {
			logger.Fatalf("failed to initialize PortAudio: %v", err)
		}
		defer audio.Terminate()
	}

	if *listDevs {
		devices, err := audio.ListInputDevices()
		if err != nil {
			logger.Fatalf("list devices: %v", err)
		}
		fmt.Printf("\n=== Audio Input Devices ===\n\n")
		for _, dev := range devices {
			markers := ""
			if dev.IsDefaultInput {
				markers += " (default)"
			}
			fmt.Printf("- %s [%s]%s\n    inputs:%d sample:%.0f Hz\n",
				dev.Name, dev.HostAPI, markers, dev.InputChannels, dev.DefaultRate)
		}
		return
	}

	var track *audio.Track
	if *filePath != "" {
		var err error
		track, err = audio.DecodeFile(*filePath, audio.DefaultLimits())
		if err != nil {
			logger.Fatalf("decode %s: %v", *filePath, err)
		}
		logger.Printf("loaded %q (%.1fs @ %.0f Hz)", track.Title, track.Duration().Seconds(), track.SampleRate)
	}

	renderCfg := pattern.DefaultConfig()
	renderCfg.Style = pattern.ParseStyle(*style)
	renderCfg.ColorPalette = *palette

	s, err := session.New(session.Config{
		Width:      *width,
		Height:     *height,
		TargetFPS:  *targetFPS,
		FFTSize:    *fftSize,
		Seed:       uint32(*seed),
		DeviceName: *deviceName,
		Track:      track,
		Play:       *play,
		Headless:   *headless || *exportPath != "",
		Render:     renderCfg,
		Log:        logger,
	})
	if err != nil {
		logger.Fatalf("failed to create session: %v", err)
	}
	defer func() {
		if err := s.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "cleanup error: %v\n", err)
		}
	}()

	if *exportPath != "" {
		if track == nil {
			logger.Fatal("-export requires -file")
		}
		if err := exportOnce(s, *exportPath, *exportFormat, *exportAt, *targetFPS, *width, *height, *exportSS); err != nil {
			logger.Fatalf("export: %v", err)
		}
		return
	}

	if *webPort > 0 {
		srv := web.NewServer(s, logger)
		defer srv.Stop()
		go func() {
			if err := srv.Start(*webPort); err != nil {
				logger.Printf("control server stopped: %v", err)
			}
		}()
	}

	if err := s.Run(ctx); err != nil {
		if ctx.Err() != nil {
			fmt.Println("\nExiting...")
			return
		}
		logger.Fatalf("runtime error: %v", err)
	}
}

// exportOnce winds the session to the requested track position, renders one
// frame and writes it to disk.
func exportOnce(s *session.Session, path, format string, at, fps float64, w, h, ss int) error {
	steps := int(at * fps)
	if steps < 1 {
		steps = 1
	}
	for i := 0; i < steps; i++ {
		done, err := s.Step()
		if err != nil {
			return err
		}
		if done {
			break
		}
	}

	fmtParsed, err := export.ParseFormat(format)
	if err != nil {
		return err
	}
	res, err := s.ExportSnapshot(export.Request{
		Format:      fmtParsed,
		Quality:     0.9,
		Width:       w,
		Height:      h,
		SuperSample: ss,
	})
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, res.Data, 0o644); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d bytes)\n", path, len(res.Data))
	return nil
}
