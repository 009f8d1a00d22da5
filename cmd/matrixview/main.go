// Package main is the entry point for the matrixview application.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"matrixview/internal/config"
	"matrixview/internal/display"
	"matrixview/internal/domain"
	"matrixview/internal/graphics"
	"matrixview/internal/storage"
	"matrixview/internal/storage/sqlite"
	"matrixview/internal/ws281x"
)

func main() {
	if len(os.Args) < 2 {
		showUsage()
		return
	}

	var err error
	switch os.Args[1] {
	case "show":
		err = runShow(os.Args[2:])
	case "clear":
		err = runClear(os.Args[2:])
	case "preview":
		err = runPreview(os.Args[2:])
	case "export":
		err = runExport(os.Args[2:])
	case "profile":
		err = runProfile(os.Args[2:])
	default:
		showUsage()
		return
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func showUsage() {
	fmt.Println("matrixview - show images on an LED matrix or an emulated window")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  matrixview show <image>          - Display an image")
	fmt.Println("  matrixview clear                 - Turn the display off")
	fmt.Println("  matrixview preview <image>       - ASCII preview in the terminal")
	fmt.Println("  matrixview export <image> <out>  - Export the image as plain PPM")
	fmt.Println("  matrixview profile save <name>   - Store the matrix config under a name")
	fmt.Println("  matrixview profile list          - List stored profiles")
	fmt.Println("  matrixview profile delete <name> - Delete a stored profile")
	fmt.Println()
	fmt.Println("Common flags (after the subcommand):")
	fmt.Println("  -backend external|internal  - Physical matrix or emulated window")
	fmt.Println("  -config <path>              - Matrix spec TOML (default settings/led_matrix.toml)")
	fmt.Println("  -profile <name>             - Use a stored matrix spec profile")
	fmt.Println("  -family ws2812b|ws2811|sk6812  - LED family timing preset")
	fmt.Println("  -scale <n>                  - Window pixels per LED (internal backend)")
	fmt.Println("  -db <path>                  - Settings database (default ~/.matrixview.db)")
	fmt.Println()
	fmt.Println("In the emulated window, + and - zoom the shown image.")
}

// backendFlags holds the flags shared by show and clear.
type backendFlags struct {
	backend string
	cfgPath string
	profile string
	family  string
	scale   int
	dbPath  string
}

func registerBackendFlags(fs *flag.FlagSet) *backendFlags {
	f := &backendFlags{}
	fs.StringVar(&f.backend, "backend", "", "backend kind: external, internal")
	fs.StringVar(&f.cfgPath, "config", config.DefaultPath, "matrix spec TOML file")
	fs.StringVar(&f.profile, "profile", "", "stored matrix spec profile")
	fs.StringVar(&f.family, "family", "ws2812b", "LED family timing preset")
	fs.IntVar(&f.scale, "scale", display.DefaultScale, "window pixels per LED")
	fs.StringVar(&f.dbPath, "db", defaultDBPath(), "settings database path")
	return f
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".matrixview.db"
	}
	return filepath.Join(home, ".matrixview.db")
}

func openStore(path string) (storage.Store, error) {
	return sqlite.NewFileStore(path)
}

// resolveBackendKind picks the backend: the flag wins, then the stored
// last choice, then the emulated window.
func resolveBackendKind(ctx context.Context, f *backendFlags, store storage.Store) string {
	if f.backend != "" {
		return f.backend
	}
	if store != nil {
		if kind, err := store.GetConfig(ctx, storage.ConfigKeyLastBackend); err == nil {
			return kind
		}
	}
	return display.KindInternal
}

// resolveSpec loads the matrix spec from a stored profile or the TOML file.
func resolveSpec(ctx context.Context, f *backendFlags, store storage.Store) (domain.MatrixSpec, error) {
	if f.profile != "" {
		if store == nil {
			return domain.MatrixSpec{}, fmt.Errorf("%w: no settings database for profile %q", domain.ErrConfig, f.profile)
		}
		profile, err := store.GetProfile(ctx, f.profile)
		if err != nil {
			return domain.MatrixSpec{}, fmt.Errorf("%w: loading profile %q: %v", domain.ErrConfig, f.profile, err)
		}
		return profile.Spec, nil
	}
	return config.LoadMatrixSpec(f.cfgPath)
}

func runShow(args []string) error {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	f := registerBackendFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("%w: show needs an image path", domain.ErrConfig)
	}
	imagePath := fs.Arg(0)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(f.dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: settings database unavailable: %v\n", err)
		store = nil
	} else {
		defer store.Close()
	}

	kind := resolveBackendKind(ctx, f, store)
	if store != nil {
		_ = store.SetConfig(ctx, storage.ConfigKeyLastBackend, kind)
	}

	switch kind {
	case display.KindExternal:
		return showExternal(ctx, f, store, imagePath)
	case display.KindInternal, display.KindEmulated:
		return showInternal(ctx, f, imagePath)
	default:
		return fmt.Errorf("%w: unknown backend kind %q", domain.ErrConfig, kind)
	}
}

// showExternal renders the image on the physical matrix and holds it
// until interrupted, then blanks the display.
func showExternal(ctx context.Context, f *backendFlags, store storage.Store, imagePath string) error {
	spec, err := resolveSpec(ctx, f, store)
	if err != nil {
		return err
	}
	timing, err := ws281x.TimingFor(f.family)
	if err != nil {
		return err
	}

	ctrl, err := display.NewController(display.KindExternal, display.Options{Spec: spec, Timing: timing})
	if err != nil {
		return err
	}
	defer ctrl.Close(context.Background())

	if err := ctrl.Show(ctx, imagePath); err != nil {
		return err
	}

	fmt.Printf("Showing %s on %dx%d matrix (pin %d). Press Ctrl+C to stop.\n",
		filepath.Base(imagePath), spec.WidthCount, spec.HeightCount, spec.GPIOPin)
	<-ctx.Done()
	fmt.Println("\nStopping...")

	// Blank before teardown; Close turns the strip off again regardless.
	return ctrl.Clear(context.Background())
}

// showInternal opens the emulated window sized to the image and blocks
// until the window is closed.
func showInternal(ctx context.Context, f *backendFlags, imagePath string) error {
	g, err := graphics.Load(imagePath)
	if err != nil {
		return err
	}
	width, height := g.Size()

	window, err := display.NewEmulated(width, height, f.scale, filepath.Base(imagePath))
	if err != nil {
		return err
	}
	ctrl, err := display.NewController(display.KindInternal, display.Options{Backend: window})
	if err != nil {
		return err
	}
	defer ctrl.Close(context.Background())

	if err := ctrl.Show(ctx, imagePath); err != nil {
		return err
	}
	window.SetZoomHandler(func(zoomOut bool) {
		if err := ctrl.AddZoom(ctx, zoomOut); err != nil {
			fmt.Fprintf(os.Stderr, "zoom: %v\n", err)
		}
	})

	go func() {
		<-ctx.Done()
		_ = window.Shutdown(context.Background())
	}()

	return window.Run()
}

func runClear(args []string) error {
	fs := flag.NewFlagSet("clear", flag.ExitOnError)
	f := registerBackendFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx := context.Background()

	store, err := openStore(f.dbPath)
	if err != nil {
		store = nil
	} else {
		defer store.Close()
	}

	spec, err := resolveSpec(ctx, f, store)
	if err != nil {
		return err
	}
	timing, err := ws281x.TimingFor(f.family)
	if err != nil {
		return err
	}

	ctrl, err := display.NewController(display.KindExternal, display.Options{Spec: spec, Timing: timing})
	if err != nil {
		return err
	}
	defer ctrl.Close(context.Background())

	if err := ctrl.Clear(ctx); err != nil {
		return err
	}
	fmt.Println("Display cleared.")
	return nil
}

func runPreview(args []string) error {
	fs := flag.NewFlagSet("preview", flag.ExitOnError)
	width := fs.Int("width", 0, "preview width (default: image width)")
	height := fs.Int("height", 0, "preview height (default: image height)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("%w: preview needs an image path", domain.ErrConfig)
	}

	g, err := graphics.Load(fs.Arg(0))
	if err != nil {
		return err
	}
	if *width > 0 && *height > 0 {
		if err := g.Resize(*width, *height, true); err != nil {
			return err
		}
	}

	fb, err := domain.FromImage(g.View())
	if err != nil {
		return err
	}

	fmt.Printf("%s (%dx%d):\n\n", g.Filename(), fb.Width(), fb.Height())
	printFrameASCII(fb)
	fmt.Println()
	fmt.Println("Legend: █=bright ▓=medium ▒=dim ░=faint ·=very dim (space)=off")
	return nil
}

func runExport(args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return fmt.Errorf("%w: export needs an image path and an output path", domain.ErrConfig)
	}

	g, err := graphics.Load(fs.Arg(0))
	if err != nil {
		return err
	}

	out, err := os.Create(fs.Arg(1))
	if err != nil {
		return err
	}
	defer out.Close()

	if err := g.WritePPM(out); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", fs.Arg(1))
	return nil
}

func runProfile(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("%w: profile needs a subcommand: save, list, delete", domain.ErrConfig)
	}

	switch args[0] {
	case "save":
		return runProfileSave(args[1:])
	case "list":
		return runProfileList(args[1:])
	case "delete":
		return runProfileDelete(args[1:])
	default:
		return fmt.Errorf("%w: unknown profile subcommand %q", domain.ErrConfig, args[0])
	}
}

func runProfileSave(args []string) error {
	fs := flag.NewFlagSet("profile save", flag.ExitOnError)
	cfgPath := fs.String("config", config.DefaultPath, "matrix spec TOML file")
	dbPath := fs.String("db", defaultDBPath(), "settings database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("%w: profile save needs a name", domain.ErrConfig)
	}
	name := fs.Arg(0)

	spec, err := config.LoadMatrixSpec(*cfgPath)
	if err != nil {
		return err
	}

	store, err := openStore(*dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.SaveProfile(context.Background(), storage.NewProfile(name, spec)); err != nil {
		return err
	}
	fmt.Printf("Saved profile %q (%dx%d, pin %d)\n", name, spec.WidthCount, spec.HeightCount, spec.GPIOPin)
	return nil
}

func runProfileList(args []string) error {
	fs := flag.NewFlagSet("profile list", flag.ExitOnError)
	dbPath := fs.String("db", defaultDBPath(), "settings database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := openStore(*dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	profiles, err := store.ListProfiles(context.Background())
	if err != nil {
		return err
	}
	if len(profiles) == 0 {
		fmt.Println("No profiles stored.")
		return nil
	}
	for _, p := range profiles {
		fmt.Printf("  %-16s %dx%d  pin %d  dma %d  brightness %.2f  %s\n",
			p.Name, p.Spec.WidthCount, p.Spec.HeightCount, p.Spec.GPIOPin,
			p.Spec.DMAChannel, p.Spec.Brightness, p.Spec.Topology)
	}
	return nil
}

func runProfileDelete(args []string) error {
	fs := flag.NewFlagSet("profile delete", flag.ExitOnError)
	dbPath := fs.String("db", defaultDBPath(), "settings database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("%w: profile delete needs a name", domain.ErrConfig)
	}

	store, err := openStore(*dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.DeleteProfile(context.Background(), fs.Arg(0)); err != nil {
		return err
	}
	fmt.Printf("Deleted profile %q\n", fs.Arg(0))
	return nil
}

// printFrameASCII renders the frame buffer as ASCII art.
func printFrameASCII(fb *domain.FrameBuffer) {
	fmt.Print("  ┌")
	for x := 0; x < fb.Width(); x++ {
		fmt.Print("─")
	}
	fmt.Println("┐")

	for y := 0; y < fb.Height(); y++ {
		fmt.Printf("%2d│", y)
		for x := 0; x < fb.Width(); x++ {
			pixel, err := fb.Get(x, y)
			if err != nil {
				fmt.Print(" ")
				continue
			}

			brightness := (int(pixel.R) + int(pixel.G) + int(pixel.B)) / 3
			switch {
			case brightness > 200:
				fmt.Print("█")
			case brightness > 150:
				fmt.Print("▓")
			case brightness > 100:
				fmt.Print("▒")
			case brightness > 50:
				fmt.Print("░")
			case brightness > 10:
				fmt.Print("·")
			default:
				fmt.Print(" ")
			}
		}
		fmt.Println("│")
	}

	fmt.Print("  └")
	for x := 0; x < fb.Width(); x++ {
		fmt.Print("─")
	}
	fmt.Println("┘")
}
