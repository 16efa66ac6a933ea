package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"strconv"
	"syscall"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/transform"
	"github.com/ayusman/mudra/internal/tray"
)

// overrides are command-line values that beat the config file and the
// remembered settings. Zero values mean "not given".
type overrides struct {
	addr     string
	cameraID int
	facing   string
}

func main() {
	fmt.Println("mudra - Hand Gesture Pipeline")

	dataDir := defaultDataDir()
	configPath := flag.String("config", filepath.Join(dataDir, "config.json"), "path to the JSON config file")
	dbPath := flag.String("db", filepath.Join(dataDir, "mudra.db"), "path to the SQLite database")
	addr := flag.String("addr", "", "HTTP listen address (overrides config)")
	cameraID := flag.Int("camera", -1, "camera device id (overrides config)")
	facing := flag.String("facing", "", "camera facing mode: mirrored or direct")
	withTray := flag.Bool("tray", false, "show status in the system tray")
	flag.Parse()

	if err := os.MkdirAll(filepath.Dir(*dbPath), 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}
	st, err := store.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	flags := overrides{addr: *addr, cameraID: *cameraID, facing: *facing}
	cfg, err := loadConfig(*configPath, st.Settings(), flags)
	if err != nil {
		log.Fatalf("Invalid settings: %v", err)
	}
	if err := remember(st.Settings(), flags); err != nil {
		log.Printf("Failed to remember settings: %v", err)
	}

	a := app.New(app.Options{Config: cfg, Store: st})
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		err := config.Watch(ctx, *configPath, func(reloaded config.Config) {
			next, err := applySettings(reloaded, st.Settings(), flags)
			if err != nil {
				log.Printf("Ignoring config reload: %v", err)
				return
			}
			a.SetConfig(next)
		})
		if err != nil {
			log.Printf("Config watch stopped: %v", err)
		}
	}()

	srv := server.New(server.Config{
		StaticDir: findWebDir(cfg.Server.WebDir),
		Store:     st,
		Pipeline:  a,
	})

	if err := a.Start(); err != nil {
		log.Fatalf("Failed to start pipeline: %v", err)
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		errCh <- srv.ListenAndServe(ctx, cfg.Server.Addr)
	}()

	if *withTray {
		runTray(ctx, stop, a, cfg)
	} else {
		<-ctx.Done()
	}

	stop()
	if err := <-errCh; err != nil {
		log.Printf("Server failed: %v", err)
	}
	log.Println("Shutting down")
}

// runTray blocks in the tray event loop until the user quits or ctx ends.
func runTray(ctx context.Context, stop context.CancelFunc, a *app.App, cfg config.Config) {
	t := tray.New(string(cfg.Facing))
	t.OnToggle(a.SetEnabled)
	t.OnQuit(stop)
	t.OnSettings(func() {
		openBrowser("http://" + cfg.Server.Addr)
	})
	unsubscribe := a.Subscribe(func(out app.Output) {
		t.SetStatus(out.Status)
	})
	defer unsubscribe()

	go func() {
		<-ctx.Done()
		t.Quit()
	}()
	t.Run()
}

// loadConfig layers the config file, the remembered settings and the
// command-line flags over the defaults. A missing config file is not an
// error.
func loadConfig(path string, settings *store.SettingsRepository, flags overrides) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Printf("Using default config: %v", err)
		}
		cfg = config.Default()
	}
	return applySettings(cfg, settings, flags)
}

// applySettings applies the remembered facing mode and camera id, then the
// flags, and validates the result.
func applySettings(cfg config.Config, settings *store.SettingsRepository, flags overrides) (config.Config, error) {
	if v, err := settings.GetOr(store.SettingFacing, ""); err == nil && v != "" {
		if f, err := transform.ParseFacing(v); err == nil {
			cfg.Facing = f
		}
	}
	if v, err := settings.GetOr(store.SettingCameraID, ""); err == nil && v != "" {
		if id, err := strconv.Atoi(v); err == nil {
			cfg.Capture.CameraID = id
		}
	}

	if flags.facing != "" {
		f, err := transform.ParseFacing(flags.facing)
		if err != nil {
			return cfg, err
		}
		cfg.Facing = f
	}
	if flags.cameraID >= 0 {
		cfg.Capture.CameraID = flags.cameraID
	}
	if flags.addr != "" {
		cfg.Server.Addr = flags.addr
	}
	return cfg, cfg.Validate()
}

// remember stores the facing mode and camera id given on the command line
// so the next run without flags reuses them.
func remember(settings *store.SettingsRepository, flags overrides) error {
	var errs []error
	if flags.facing != "" {
		if f, err := transform.ParseFacing(flags.facing); err == nil {
			errs = append(errs, settings.Set(store.SettingFacing, string(f)))
		}
	}
	if flags.cameraID >= 0 {
		errs = append(errs, settings.Set(store.SettingCameraID, strconv.Itoa(flags.cameraID)))
	}
	return errors.Join(errs...)
}

func defaultDataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Failed to get home directory: %v", err)
	}
	return filepath.Join(homeDir, ".mudra")
}

// findWebDir searches for the viewer directory: the configured path first,
// then "web", "../web" and ~/.mudra/web. Returns the first existing
// directory or empty string if none found.
func findWebDir(configured string) string {
	candidates := []string{configured, "web", "../web"}
	if homeDir, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(homeDir, ".mudra", "web"))
	}

	for _, p := range candidates {
		if p == "" {
			continue
		}
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
			return p
		}
	}
	return ""
}

func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.Printf("Failed to open %s: %v", url, err)
	}
}
