// Package wire provides dependency injection for queuebot.
// It creates singleton services with lazy initialization.
package wire

import (
	"database/sql"
	"io"
	"os"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	cliadapter "github.com/example/queuebot/internal/adapters/cli"
	"github.com/example/queuebot/internal/adapters/export"
	"github.com/example/queuebot/internal/adapters/sqlite"
	"github.com/example/queuebot/internal/adapters/telegram"
	"github.com/example/queuebot/internal/app"
	"github.com/example/queuebot/internal/config"
	"github.com/example/queuebot/internal/db"
	"github.com/example/queuebot/internal/ports/secondary"
)

// Services holds the long-lived objects shared by every command.
type Services struct {
	Config *config.Config
	Logger *logrus.Logger

	DB            *sql.DB
	QueueService  *app.QueueServiceImpl
	ExportService *app.ExportServiceImpl
}

var (
	configDir = config.DefaultDir()
	services  *Services
	initErr   error
	once      sync.Once
)

// SetConfigDir selects the directory config.json and .env are read from.
// It must be called before the first service is requested.
func SetConfigDir(dir string) {
	configDir = dir
}

// ConfigDir returns the selected configuration directory.
func ConfigDir() string {
	return configDir
}

// Get returns the singleton Services, building them on first use.
func Get() (*Services, error) {
	once.Do(func() {
		cfg, err := config.LoadConfig(configDir)
		if err != nil {
			initErr = err
			return
		}
		services, initErr = Build(cfg, os.Stderr)
	})
	return services, initErr
}

// Build opens the database and creates the services for cfg. Logs go to
// logOut.
func Build(cfg *config.Config, logOut io.Writer) (*Services, error) {
	logger, err := NewLogger(cfg.LogLevel, logOut)
	if err != nil {
		return nil, err
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize database")
	}

	log := logrus.NewEntry(logger)
	admins := cfg.Admins()

	// Secondary adapters
	store := sqlite.NewStore(database)

	// Primary ports implementation
	queueService := app.NewQueueService(store, admins, log)
	exportService := app.NewExportService(queueService, export.NewXLSXWriter(), admins, log)

	logger.WithFields(logrus.Fields{
		"db_path": cfg.DBPath,
		"admins":  admins.Len(),
	}).Debug("services initialized")

	return &Services{
		Config:        cfg,
		Logger:        logger,
		DB:            database,
		QueueService:  queueService,
		ExportService: exportService,
	}, nil
}

// NewLogger creates the process logger at the given level.
func NewLogger(level string, out io.Writer) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid log level %q", level)
	}

	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(lvl)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return logger, nil
}

// QueueAdapter returns a new QueueAdapter writing to stdout.
func (s *Services) QueueAdapter() *cliadapter.QueueAdapter {
	return s.QueueAdapterWithOutput(os.Stdout)
}

// QueueAdapterWithOutput returns a new QueueAdapter writing to the given output.
func (s *Services) QueueAdapterWithOutput(out io.Writer) *cliadapter.QueueAdapter {
	return cliadapter.NewQueueAdapter(s.QueueService, s.ExportService, out)
}

// Bot returns the chat transport bound to api.
func (s *Services) Bot(api telegram.API) *telegram.Bot {
	return telegram.NewBot(api, s.QueueService, s.ExportService, logrus.NewEntry(s.Logger))
}

// Notifier returns the up-next notifier delivering through messenger.
func (s *Services) Notifier(messenger secondary.Messenger) *app.Notifier {
	return app.NewNotifier(s.QueueService, messenger, s.Config.NotifyInterval, logrus.NewEntry(s.Logger))
}

// Close releases the database.
func (s *Services) Close() error {
	return s.DB.Close()
}
