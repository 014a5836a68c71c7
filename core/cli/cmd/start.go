package cmd

import (
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/nwslgate/nwslgate/core/config"
	"github.com/nwslgate/nwslgate/core/infrastructure/logging"
	"github.com/nwslgate/nwslgate/core/runtime"
)

var watch bool

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:           "start",
	Short:         "Run the gateway server",
	RunE:          startServer,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true, // Errors are already logged, suppress Cobra's error output
}

func init() {
	rootCmd.AddCommand(startCmd)

	startCmd.Flags().StringVarP(&port, "port", "p", "", "Server port (overrides PORT env var)")
	startCmd.Flags().StringVar(&envDir, "env-dir", "", "Directory to load .env files from")
	startCmd.Flags().IntVar(&logLevel, "log-level", 0, "Log level: 1=ERROR, 2=WARN, 3=INFO, 4=DEBUG")
	startCmd.Flags().BoolVar(&verbose, "verbose", false, "Enable verbose logging (sets log level to DEBUG)")
	startCmd.Flags().StringVar(&logTags, "log-tags", "", "Filter logs by tags (comma-separated, use -tag to exclude). Overrides NWSLGATE_LOG_TAGS env var")
	startCmd.Flags().BoolVar(&watch, "watch", false, "Watch .env files and restart on changes")
}

func startServer(cmd *cobra.Command, args []string) error {
	if watch {
		return startServerWithWatch()
	}
	rt, err := PrepareRuntime()
	if err != nil {
		return err
	}
	return rt.Start()
}

// PrepareRuntime loads env files and configuration and builds a runtime
// ready to start
func PrepareRuntime() (*runtime.Runtime, error) {
	// Set log level early so config loading respects it
	if verbose {
		logging.SetLogLevel(logging.LogLevelDebug)
	} else if logLevel > 0 {
		logging.SetLogLevel(logLevel)
	} else {
		logging.SetLogLevel(logging.LogLevelInfo)
	}

	tagFilterStr := logTags
	if tagFilterStr == "" {
		tagFilterStr = os.Getenv("NWSLGATE_LOG_TAGS")
	}
	if tagFilterStr != "" {
		logging.SetTagFilter(tagFilterStr)
	}

	LoadEnvFiles(envDir)

	if port != "" {
		os.Setenv("PORT", port)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	return runtime.New(cfg, version)
}

// startServerWithWatch restarts the gateway when a watched .env file
// changes. Reload failures keep the current server running.
func startServerWithWatch() error {
	log := logging.New("watch")

	watchDir := envDir
	if watchDir == "" {
		watchDir = "."
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(watchDir); err != nil {
		return err
	}

	restart := make(chan struct{}, 1)
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		var debounce *time.Timer
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 && isEnvFile(event.Name) {
					if debounce != nil {
						debounce.Stop()
					}
					debounce = time.AfterFunc(500*time.Millisecond, func() {
						select {
						case restart <- struct{}{}:
						default:
						}
					})
				}
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	log.Infof("Watching %s for .env changes", watchDir)

	rt, err := PrepareRuntime()
	if err != nil {
		return err
	}
	if err := rt.StartAsync(); err != nil {
		return err
	}

	for {
		select {
		case <-sigChan:
			return rt.Stop()
		case <-restart:
			log.Infof("Environment changed, reloading")
			newRt, err := PrepareRuntime()
			if err != nil {
				log.Warnf("Reload failed, keeping current server running: %v", err)
				continue
			}
			if err := rt.Stop(); err != nil {
				log.Errorf("Failed to stop server for reload: %v", err)
				return err
			}
			if err := newRt.StartAsync(); err != nil {
				log.Errorf("Failed to start new server: %v", err)
				return err
			}
			rt = newRt
			log.Infof("Server reloaded successfully")
		}
	}
}

func isEnvFile(path string) bool {
	base := filepath.Base(path)
	return base == ".env" || strings.HasPrefix(base, ".env.")
}
