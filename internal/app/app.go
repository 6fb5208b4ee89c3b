package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jgivc/frqarchive/internal/adapter/fsadapter"
	"github.com/jgivc/frqarchive/internal/adapter/tpladapter"
	"github.com/jgivc/frqarchive/internal/catalog"
	"github.com/jgivc/frqarchive/internal/common"
	"github.com/jgivc/frqarchive/internal/config"
	consolehandler "github.com/jgivc/frqarchive/internal/handler/console"
	httphandler "github.com/jgivc/frqarchive/internal/handler/http"
	"github.com/jgivc/frqarchive/internal/loader"
	"github.com/jgivc/frqarchive/internal/navigation"
	"github.com/jgivc/frqarchive/internal/repository/document"
	sindex "github.com/jgivc/frqarchive/internal/service/index"
	"github.com/jgivc/frqarchive/internal/service/page"
	"github.com/jgivc/frqarchive/internal/storage/index"
	"github.com/jgivc/frqarchive/internal/view"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/afero"
)

const (
	indexTimeout    = 5 * time.Minute
	shutdownTimeout = 5 * time.Second
	pingTimeout     = 5 * time.Second
	fetchTimeout    = 10 * time.Second
)

type App struct {
	cfgPath  string
	once     sync.Once
	cfg      *config.Config
	rdb      *redis.Client
	srv      *http.Server
	fetcher  loader.Fetcher
	renderer *view.Renderer
	indexer  *sindex.IndexerService
	log      *slog.Logger
}

func New(cfgPath string) *App {
	return &App{
		cfgPath: cfgPath,
	}
}

func (a *App) init() {
	a.once.Do(a.setup)
}

// setup wires everything the commands share. Misconfiguration panics, the
// same as config.MustLoad.
func (a *App) setup() {
	a.cfg = config.MustLoad(a.cfgPath)

	lo := &slog.HandlerOptions{}
	switch a.cfg.LogLevel {
	case config.LogLevelInfo:
		lo.Level = slog.LevelInfo
	case config.LogLevelWarn:
		lo.Level = slog.LevelWarn
	case config.LogLevelError:
		lo.Level = slog.LevelError
	case config.LogLevelDebug:
		lo.Level = slog.LevelDebug
	default:
		panic(common.ErrUnknownLogLevel)
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, lo))
	a.log = log

	cat := catalog.Default()
	if a.cfg.CatalogFile != "" {
		var err error
		if cat, err = catalog.Load(a.cfg.CatalogFile); err != nil {
			panic(err)
		}
	}

	if a.cfg.RedisURL != "" {
		opt, err := redis.ParseURL(a.cfg.RedisURL)
		if err != nil {
			panic(err)
		}

		a.rdb = redis.NewClient(opt)
		ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
		defer cancel()
		if _, err := a.rdb.Ping(ctx).Result(); err != nil {
			panic(err)
		}
	}

	osFs := afero.NewOsFs()
	b := &a.cfg.BuildConfig
	dataDir := filepath.Join(b.RootDir, b.OutputDir)

	switch a.cfg.Source {
	case config.SourceFS:
		// FSFetcher maps /data/... below its root, and the output folder is named data.
		a.fetcher = loader.NewFSFetcher(osFs, filepath.Dir(dataDir))
	case config.SourceHTTP:
		a.fetcher = loader.NewHTTPFetcher(a.cfg.DataURL, &http.Client{Timeout: fetchTimeout})
	case config.SourceRedis:
		a.fetcher = document.NewRedisRepository(a.rdb, log)
	}

	a.renderer = view.NewRenderer(loader.NewLoader(a.fetcher, log), cat, a.cfg.SiteURL, log)

	fsa, err := fsadapter.NewFSAdapter(b, log)
	if err != nil {
		panic(err)
	}

	repos := []sindex.DocumentRepository{document.NewFSRepository(osFs, dataDir, log)}
	if b.Publish {
		repos = append(repos, document.NewRedisRepository(a.rdb, log))
	}

	store := index.NewIndexStorage(osFs, fsa, b, log)
	a.indexer = sindex.NewIndexService(store, log, repos...)
}

func (a *App) Start() {
	a.init()
	log := a.log

	tpl, err := tpladapter.NewTplAdapter(a.cfg.Template)
	if err != nil {
		panic(err)
	}

	files := afero.NewReadOnlyFs(afero.NewBasePathFs(afero.NewOsFs(), a.cfg.BuildConfig.RootDir))

	router := httphandler.NewRouter(httphandler.Services{
		Pages:   page.NewPageService(a.renderer, tpl, log),
		Data:    a.fetcher,
		Files:   files,
		Indexer: a.indexer,
	}, log)

	a.srv = &http.Server{
		Addr:              a.cfg.Listen,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Start listen", slog.String("addr", a.cfg.Listen), slog.String("source", a.cfg.Source))

		if err := a.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Could not serve", slog.String("listen_addr", a.cfg.Listen), slog.Any("error", err))
			os.Exit(2)
		}
	}()
}

// Index runs one build and prints a summary to out.
func (a *App) Index(out io.Writer) error {
	a.init()

	ctx, cancel := context.WithTimeout(context.Background(), indexTimeout)
	defer cancel()

	fmt.Fprintln(out, "Building...")

	infos, err := a.indexer.Index(ctx)
	if err != nil {
		fmt.Fprintf(out, "Cannot build index: %s\n", err)

		return err
	}

	for i, info := range infos {
		fmt.Fprintf(out, "%d. %s -> %s/course/%s, years: %d, files: %d, questions: %d\n",
			i+1, info.SourcePath, a.cfg.SiteURL, info.Slug, info.YearCount, info.FileCount, info.QuestionCount)
	}

	fmt.Fprintln(out, "Done.")

	return nil
}

// Browse runs the console browser. fragment forces fragment addressing.
func (a *App) Browse(ctx context.Context, start string, fragment bool, in io.Reader, out io.Writer) error {
	a.init()

	var addr navigation.Addressing = navigation.PathAddressing{}
	if fragment || a.cfg.Addressing == config.AddressingFragment {
		addr = navigation.FragmentAddressing{}
	}

	b := consolehandler.NewBrowser(a.renderer, addr, a.cfg.SiteURL, start, out, a.log)

	return b.Run(ctx, in)
}

func (a *App) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if a.srv != nil {
		if err := a.srv.Shutdown(ctx); err != nil {
			a.log.Error("Cannot shutdown server", slog.Any("error", err))
		}
	}

	if a.rdb != nil {
		a.rdb.Close()
	}
}
