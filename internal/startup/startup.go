package startup

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"reaper-cleaner/internal/logging"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// BuildInfo contains version and build information
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the current build information
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// RouteInfo contains information about a registered route
type RouteInfo struct {
	Method string
	Path   string
	Name   string
}

// Config holds all application configuration
type Config struct {
	Root             string `validate:"required,dir"`
	ArchiveDirName   string `validate:"required,excludesall=/\\"`
	Collision        string `validate:"oneof=rename fail"`
	IndexScope       string `validate:"oneof=selected all"`
	Workers          int    `validate:"gte=0"`
	ResolveCacheSize int    `validate:"gte=0"`
	SkipHidden       bool
	MetricsEnabled   bool
	MetricsPort      string `validate:"required,numeric"`

	// Derived
	ArchiveRoot string
}

// Overrides carries command line values that take precedence over the
// environment. Zero values leave the environment setting in place.
type Overrides struct {
	Root       string
	Collision  string
	IndexAll   bool
	Workers    int
	SkipHidden bool
	EnvFile    string
}

// LoadConfig reads an optional .env file, then the environment, then
// applies overrides and validates the result.
func LoadConfig(o Overrides) (*Config, error) {
	loadEnvFile(o.EnvFile)

	cfg := &Config{
		ArchiveDirName:   getEnv("ARCHIVE_DIR_NAME", "_Reaper_Cleanup_Archive"),
		Collision:        strings.ToLower(getEnv("ARCHIVE_COLLISION", "rename")),
		IndexScope:       strings.ToLower(getEnv("INDEX_SCOPE", "selected")),
		Workers:          getEnvInt("SCAN_WORKERS", 0),
		ResolveCacheSize: getEnvInt("RESOLVE_CACHE_SIZE", 4096),
		SkipHidden:       getEnvBool("SKIP_HIDDEN", false),
		MetricsEnabled:   getEnvBool("METRICS_ENABLED", false),
		MetricsPort:      getEnv("METRICS_PORT", "9090"),
	}

	if o.Root != "" {
		cfg.Root = o.Root
	}
	if o.Collision != "" {
		cfg.Collision = strings.ToLower(o.Collision)
	}
	if o.IndexAll {
		cfg.IndexScope = "all"
	}
	if o.Workers > 0 {
		cfg.Workers = o.Workers
	}
	if o.SkipHidden {
		cfg.SkipHidden = true
	}

	if cfg.Root != "" {
		abs, err := filepath.Abs(cfg.Root)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve root directory path: %w", err)
		}
		cfg.Root = abs
		cfg.ArchiveRoot = filepath.Join(abs, cfg.ArchiveDirName)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logConfig(cfg)
	return cfg, nil
}

// Validate checks every field against its constraints and reports the
// first violation.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.New(extractValidationErrors(err))
	}
	return nil
}

// extractValidationErrors extracts validation error messages from validator errors.
func extractValidationErrors(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		ve := validationErrors[0]
		if ve.Field() == "Root" && ve.Tag() == "dir" {
			return fmt.Sprintf("invalid configuration: root %q is not an existing directory", ve.Value())
		}
		return fmt.Sprintf("invalid configuration: %s failed %q (value %v)", ve.Field(), ve.Tag(), ve.Value())
	}
	return "invalid configuration: " + err.Error()
}

func loadEnvFile(path string) {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			logging.Warn("Could not load env file %s: %v", path, err)
		}
		return
	}
	// optional; a missing .env is the normal case
	_ = godotenv.Load()
}

func logConfig(cfg *Config) {
	logSection("CONFIGURATION", logging.Debug)
	logging.Debug("  ROOT:                %s", cfg.Root)
	logging.Debug("  ARCHIVE_DIR_NAME:    %s", cfg.ArchiveDirName)
	logging.Debug("  ARCHIVE_COLLISION:   %s", cfg.Collision)
	logging.Debug("  INDEX_SCOPE:         %s", cfg.IndexScope)
	logging.Debug("  SCAN_WORKERS:        %d", cfg.Workers)
	logging.Debug("  RESOLVE_CACHE_SIZE:  %d", cfg.ResolveCacheSize)
	logging.Debug("  SKIP_HIDDEN:         %v", cfg.SkipHidden)
	logging.Debug("  METRICS_ENABLED:     %v", cfg.MetricsEnabled)
	logging.Debug("  METRICS_PORT:        %s", cfg.MetricsPort)
	logging.Debug("  LOG_LEVEL:           %s", logging.GetLevel())
}

// LogStartup prints the banner and system information.
func LogStartup() {
	printBanner()
	logSystemInfo()
}

// LogPhaseStart logs the header for one cleaning phase.
func LogPhaseStart(phase string) {
	logSection(strings.ToUpper(phase), logging.Info)
}

// LogPhaseComplete logs the end of a phase with a short result line.
func LogPhaseComplete(phase string, duration time.Duration, format string, args ...interface{}) {
	logging.Info("  [OK] %s complete in %v: %s", phase, duration.Round(time.Millisecond), fmt.Sprintf(format, args...))
}

// LogPhaseFailed logs a phase that stopped with an error.
func LogPhaseFailed(phase string, err error) {
	logging.Error("  [FAILED] %s: %v", phase, err)
}

func logSection(title string, logf func(string, ...interface{})) {
	logf("")
	logf("------------------------------------------------------------")
	logf("%s", title)
	logf("------------------------------------------------------------")
}

// GetRoutes extracts all registered routes from a mux.Router
func GetRoutes(router *mux.Router) ([]RouteInfo, error) {
	var routes []RouteInfo

	err := router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		pathTemplate, err := route.GetPathTemplate()
		if err != nil {
			return err
		}

		methods, err := route.GetMethods()
		if err != nil {
			methods = []string{"*"}
		}

		for _, method := range methods {
			routes = append(routes, RouteInfo{
				Method: method,
				Path:   pathTemplate,
				Name:   route.GetName(),
			})
		}
		return nil
	})

	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path != routes[j].Path {
			return routes[i].Path < routes[j].Path
		}
		return routes[i].Method < routes[j].Method
	})
	return routes, err
}

// LogHTTPRoutes logs the metrics server routes at debug level.
func LogHTTPRoutes(router *mux.Router, port string) {
	logSection("METRICS SERVER", logging.Info)
	logging.Info("  Listening on http://0.0.0.0:%s", port)

	if !logging.IsDebugEnabled() {
		return
	}
	routes, err := GetRoutes(router)
	if err != nil {
		logging.Warn("error walking routes: %v", err)
	}
	logging.Debug("  Registered routes (%d total):", len(routes))
	for _, route := range routes {
		logging.Debug("    %-6s %s", route.Method, route.Path)
	}
}

// LogShutdownInitiated logs shutdown start
func LogShutdownInitiated(signal string) {
	logSection(fmt.Sprintf("SHUTDOWN INITIATED (received %s)", signal), logging.Warn)
	logging.Warn("  Stopping after the current step; files already moved stay archived")
}

// LogFatal logs a fatal error and exits
func LogFatal(format string, args ...interface{}) {
	logging.Fatal(format, args...)
}

// Helper functions

func printBanner() {
	banner := `
------------------------------------------------------------
   ___  ___  ___   ___  ___  ___     _    ___   _   _  _ ___ ___
  | _ \| __|/_\ | _ \| __|| _ \   / __|| |  | __| /_\ | \| | __| _ \
  |   /| _|/ _ \|  _/| _| |   /  | (__ | |__| _| / _ \| .' | _||   /
  |_|_\|___/_/ \_\_|  |___||_|_\   \___||____|___/_/ \_\_|\_|___|_|_\

------------------------------------------------------------`
	fmt.Fprintln(os.Stderr, banner)
	logging.Info("  Version:    %s", Version)
	logging.Info("  Commit:     %s", Commit)
	logging.Info("  Build Time: %s", BuildTime)
	logging.Info("  Started:    %s", time.Now().Format(time.RFC1123))
}

func logSystemInfo() {
	logSection("SYSTEM INFORMATION", logging.Info)
	logging.Info("  Go version:      %s", runtime.Version())
	logging.Info("  OS/Arch:         %s/%s", runtime.GOOS, runtime.GOARCH)
	logging.Info("  CPUs available:  %d", runtime.NumCPU())
	logging.Info("  GOMAXPROCS:      %d", runtime.GOMAXPROCS(0))

	if runtime.GOMAXPROCS(0) < runtime.NumCPU() {
		logging.Info("  (Container CPU limit detected)")
	}

	if logging.IsDebugEnabled() {
		if wd, err := os.Getwd(); err == nil {
			logging.Debug("  Working dir:     %s", wd)
		}
		if hostname, err := os.Hostname(); err == nil {
			logging.Debug("  Hostname:        %s", hostname)
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		logging.Warn("Invalid boolean value for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		logging.Warn("Invalid integer value for %s: %q, using default: %d", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}
