package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	stitch "github.com/rishikaushal2009/Audio-Stich"
	"github.com/rishikaushal2009/Audio-Stich/aws"
	"github.com/rishikaushal2009/Audio-Stich/bolt"
	"github.com/rishikaushal2009/Audio-Stich/ffmpeg"
	stitchhttp "github.com/rishikaushal2009/Audio-Stich/http"
	"github.com/rishikaushal2009/Audio-Stich/local"
	"github.com/rishikaushal2009/Audio-Stich/twilio"
)

func main() {
	m := NewMain()

	// Parse command line flags.
	if err := m.ParseFlags(os.Args[1:]); err == flag.ErrHelp {
		fmt.Fprintln(m.Stderr, m.Usage())
		os.Exit(1)
	} else if err != nil {
		fmt.Fprintln(m.Stderr, err)
		os.Exit(1)
	}

	// Load configuration.
	if err := m.LoadConfig(); err != nil {
		fmt.Fprintln(m.Stderr, err)
		os.Exit(1)
	}

	// One-shot mode stitches a single message and exits.
	if m.Message != "" {
		if err := m.RunOnce(); err != nil {
			fmt.Fprintln(m.Stderr, err)
			os.Exit(1)
		}
		return
	}

	// Execute daemon.
	if err := m.Run(); err != nil {
		fmt.Fprintln(m.Stderr, err)
		os.Exit(1)
	}

	// Shutdown on SIGINT (CTRL-C).
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	<-c
	fmt.Fprintln(m.Stdout, "received interrupt, shutting down...")
	m.Close()
}

// Main represents the main program execution.
type Main struct {
	ConfigPath string
	Config     Config

	// One-shot flags.
	Message string
	Audios  string
	Output  string

	// Input/output streams
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	closeFn func() error
}

// NewMain returns a new instance of Main.
func NewMain() *Main {
	return &Main{
		ConfigPath: DefaultConfigPath,
		Config:     DefaultConfig(),

		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,

		closeFn: func() error { return nil },
	}
}

// Close cleans up the program.
func (m *Main) Close() error { return m.closeFn() }

// Usage returns the usage message.
func (m *Main) Usage() string {
	return strings.TrimSpace(`
usage: stitcher [flags]

Stitches audio assets into a single clip based on where their names
occur in a message. Runs once when -message is given; otherwise serves
the HTTP API and job queue.

The following flags are available:

	-config PATH
		Specifies the configuration file to read.
		Defaults to ~/.stitcher/config

	-message TEXT
		Stitches a single message and exits.

	-audios PATH
		Audio asset directory for one-shot mode.
		Overrides the configured path.

	-output PATH
		Output file for one-shot mode.

`)
}

// ParseFlags parses the command line flags.
func (m *Main) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("stitcher", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&m.ConfigPath, "config", "", "config file")
	fs.StringVar(&m.Message, "message", "", "message to stitch")
	fs.StringVar(&m.Audios, "audios", "", "audio asset directory")
	fs.StringVar(&m.Output, "output", "", "output file")
	return fs.Parse(args)
}

// LoadConfig parses the configuration file.
func (m *Main) LoadConfig() error {
	// Default configuration path if not specified.
	path := m.ConfigPath
	if path == "" {
		path = DefaultConfigPath
	}

	// Interpolate path.
	if err := InterpolatePaths(&path); err != nil {
		return err
	}

	// Read configuration file.
	if _, err := toml.DecodeFile(path, &m.Config); os.IsNotExist(err) {
		if m.ConfigPath != "" {
			return err
		}
	} else if err != nil {
		return err
	}
	return nil
}

// RunOnce executes a single stitch and exits.
func (m *Main) RunOnce() error {
	if m.Output == "" {
		return errors.New("output path required")
	}

	pipeline, err := m.pipeline()
	if err != nil {
		return err
	}

	result, err := pipeline.Run(context.Background(), m.Message, m.Output)
	if err != nil {
		return err
	}

	if result.Cached {
		fmt.Fprintf(m.Stdout, "stitched from cache: %s\n", result.Output)
	} else {
		fmt.Fprintf(m.Stdout, "stitched %d assets: %s\n", result.Assets, result.Output)
	}
	return nil
}

// Run executes the daemon.
func (m *Main) Run() error {
	// Interpolate config paths.
	dbPath := m.Config.Database.Path
	if err := InterpolatePaths(&dbPath); err != nil {
		return err
	}

	pipeline, err := m.pipeline()
	if err != nil {
		return err
	}

	// Open database.
	db := bolt.NewDB()
	db.Path = dbPath
	if err := db.Open(); err != nil {
		return err
	}
	fmt.Fprintf(m.Stdout, "database initialized: path=%s\n", m.Config.Database.Path)

	// Instantiate job service & requeue interrupted jobs.
	jobService := bolt.NewJobService(db)
	if err := jobService.ResetJobQueue(context.Background()); err != nil {
		return fmt.Errorf("error: reset job queue: %s", err)
	}

	// Initialize Twilio service, if configured.
	var smsService stitch.SMSService
	if m.Config.Twilio.AccountSID != "" {
		s := twilio.NewSMSService()
		s.AccountSID = m.Config.Twilio.AccountSID
		s.AuthToken = m.Config.Twilio.AuthToken
		s.From = m.Config.Twilio.From
		s.LogOutput = m.Stdout
		smsService = s
	}

	// Start job scheduler.
	jobScheduler := stitch.NewJobScheduler()
	jobScheduler.JobService = jobService
	jobScheduler.Pipeline = pipeline
	jobScheduler.SMSService = smsService
	jobScheduler.LogOutput = m.Stdout

	if err := jobScheduler.Open(); err != nil {
		return fmt.Errorf("error: open job scheduler: %s", err)
	}

	// Initialize HTTP server.
	httpServer := stitchhttp.NewServer()
	httpServer.Addr = m.Config.HTTP.Addr
	httpServer.Host = m.Config.HTTP.Host
	httpServer.Autocert = m.Config.HTTP.Autocert
	httpServer.LogOutput = m.Stdout

	httpServer.Pipeline = pipeline
	httpServer.JobService = jobService
	httpServer.Repository = pipeline.Repository

	// Open HTTP server.
	if err := httpServer.Open(); err != nil {
		return err
	}
	serverURL := httpServer.URL()
	fmt.Fprintf(m.Stdout, "http listening: %s\n", serverURL.String())

	// Assign close function.
	m.closeFn = func() error {
		httpServer.Close()
		jobScheduler.Close()
		db.Close()
		return nil
	}

	return nil
}

// pipeline builds the stitch pipeline from the configuration: an S3
// repository when a bucket is configured, the local filesystem
// otherwise.
func (m *Main) pipeline() (*stitch.Pipeline, error) {
	codec := ffmpeg.NewCodec()
	if m.Config.Codec.FFmpeg != "" {
		codec.Path = m.Config.Codec.FFmpeg
	}
	codec.LogOutput = m.Stdout

	p := stitch.NewPipeline()
	p.Codec = codec
	p.SilenceOnDecodeError = m.Config.Stitch.SilenceOnDecodeError
	p.LogOutput = m.Stdout

	if m.Config.AWS.Bucket != "" {
		session, err := aws.NewSession(
			m.Config.AWS.AccessKeyID,
			m.Config.AWS.SecretAccessKey,
			m.Config.AWS.Region,
		)
		if err != nil {
			return nil, err
		}

		repo := aws.NewRepository()
		repo.Session = session
		repo.Bucket = m.Config.AWS.Bucket
		repo.LogOutput = m.Stdout

		p.Repository = repo
		p.Cache = repo
		fmt.Fprintf(m.Stdout, "asset storage: bucket=%s\n", m.Config.AWS.Bucket)
		return p, nil
	}

	audioPath := m.Config.Audio.Path
	if m.Audios != "" {
		audioPath = m.Audios
	}
	cachePath := m.Config.Cache.Path
	if err := InterpolatePaths(&audioPath, &cachePath); err != nil {
		return nil, err
	}

	repo := local.NewRepository()
	repo.AudioPath = audioPath
	repo.CachePath = cachePath

	p.Repository = repo
	if cachePath != "" {
		p.Cache = repo
	}
	fmt.Fprintf(m.Stdout, "asset storage: path=%s\n", audioPath)
	return p, nil
}

// DefaultConfigPath is the default configuration path.
const DefaultConfigPath = "~/.stitcher/config"

// Config represents a configuration file.
type Config struct {
	Audio struct {
		Path string `toml:"path"`
	} `toml:"audio"`

	Cache struct {
		Path string `toml:"path"`
	} `toml:"cache"`

	Database struct {
		Path string `toml:"path"`
	} `toml:"database"`

	HTTP struct {
		Addr     string `toml:"addr"`
		Host     string `toml:"host"`
		Autocert bool   `toml:"autocert"`
	} `toml:"http"`

	AWS struct {
		AccessKeyID     string `toml:"access-key-id"`
		SecretAccessKey string `toml:"secret-access-key"`
		Region          string `toml:"region"`
		Bucket          string `toml:"bucket"`
	} `toml:"aws"`

	Codec struct {
		FFmpeg string `toml:"ffmpeg"`
	} `toml:"codec"`

	Stitch struct {
		SilenceOnDecodeError bool `toml:"silence-on-decode-error"`
	} `toml:"stitch"`

	Twilio struct {
		AccountSID string `toml:"account-sid"`
		AuthToken  string `toml:"auth-token"`
		From       string `toml:"from"`
	} `toml:"twilio"`
}

// DefaultConfig returns a configuration with default settings.
func DefaultConfig() Config {
	var c Config
	c.Audio.Path = "~/.stitcher/audios"
	c.Cache.Path = "~/.stitcher/cache"
	c.Database.Path = "~/.stitcher/db"
	c.HTTP.Addr = ":3000"
	return c
}

// InterpolatePaths replaces the tilde prefix with the user's home directory.
func InterpolatePaths(a ...*string) error {
	for _, s := range a {
		if !strings.HasPrefix(*s, "~/") {
			continue
		}

		u, err := user.Current()
		if err != nil {
			return err
		} else if u.HomeDir == "" {
			return errors.New("home directory not found")
		}
		*s = filepath.Join(u.HomeDir, strings.TrimPrefix(*s, "~/"))
	}
	return nil
}
