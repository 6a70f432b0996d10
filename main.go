package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/getsentry/sentry-go"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/uber-go/tally/v4"
	promreporter "github.com/uber-go/tally/v4/prometheus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"

	"github.com/bitmark-inc/helpity-api/api"
	"github.com/bitmark-inc/helpity-api/dispatch"
	"github.com/bitmark-inc/helpity-api/external/onesignal"
	"github.com/bitmark-inc/helpity-api/external/textgen"
	"github.com/bitmark-inc/helpity-api/notification"
	"github.com/bitmark-inc/helpity-api/schema"
	"github.com/bitmark-inc/helpity-api/store"
	"github.com/bitmark-inc/helpity-api/utils"
)

var (
	server     *api.Server
	ormDB      *gorm.DB
	mongoStore store.MongoStore
)

func initLog() {
	logLevel, err := log.ParseLevel(viper.GetString("log.level"))
	if err != nil {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(logLevel)
	}

	log.SetOutput(os.Stdout)

	log.SetFormatter(&prefixed.TextFormatter{
		ForceFormatting: true,
		FullTimestamp:   true,
	})
}

func loadConfig(file string) {
	// secrets for local development
	_ = godotenv.Load(".env")

	// Config from file
	viper.SetConfigType("yaml")
	if file != "" {
		viper.SetConfigFile(file)
	}

	viper.AddConfigPath("/.config/")
	viper.AddConfigPath(".")
	err := viper.ReadInConfig()
	if err != nil {
		fmt.Println("No config file. Read config from env.")
		viper.AllowEmptyEnv(false)
	}

	// Config from env if possible
	viper.AutomaticEnv()
	viper.SetEnvPrefix("helpity")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("server.port", "8000")
	viper.SetDefault("mongo.database", "helpity")
	viper.SetDefault("mongo.pool", 10)
	viper.SetDefault("textgen.timeout", 15*time.Second)
}

func initMetrics() (tally.Scope, http.Handler, func()) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	reporter := promreporter.NewReporter(promreporter.Options{
		Registerer: registry,
	})
	scope, closer := tally.NewRootScope(tally.ScopeOptions{
		Prefix:         "helpity",
		CachedReporter: reporter,
		Separator:      promreporter.DefaultSeparator,
	}, time.Second)

	return scope, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}), func() {
		if err := closer.Close(); err != nil {
			log.Error(err)
		}
	}
}

func main() {
	var configFile string

	initialCtx, cancelInitialization := context.WithCancel(context.Background())

	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	flag.StringVar(&configFile, "c", "./config.yaml", "[optional] path of configuration file")
	flag.Parse()

	loadConfig(configFile)

	initLog()

	// Sentry
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              viper.GetString("sentry.dsn"),
		AttachStacktrace: true,
		Environment:      viper.GetString("sentry.environment"),
		Dist:             viper.GetString("sentry.dist"),
	}); err != nil {
		log.Error(err)
	}
	log.WithField("prefix", "init").Info("Initialized sentry")

	utils.InitI18NBundle()
	log.WithField("prefix", "init").Info("Loaded i18n bundle")

	scope, metricsHandler, closeMetrics := initMetrics()

	go func() {
		<-c
		log.Info("Server is preparing to shutdown")

		if initialCtx != nil && cancelInitialization != nil {
			log.Info("Cancelling initialization")
			cancelInitialization()
			<-initialCtx.Done()
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if server != nil {
			log.Info("Shutdown api server")
			if err := server.Shutdown(ctx); err != nil {
				log.Error("Server Shutdown:", err)
			}
		}

		if ormDB != nil {
			log.Info("Shutting down db store")
			if err := ormDB.Close(); err != nil {
				log.Error(err)
			}
		}

		if mongoStore != nil {
			log.Info("Shutting down mongo store")
			mongoStore.Close()
		}

		closeMetrics()
		sentry.Flush(2 * time.Second)

		os.Exit(1)
	}()

	var err error
	ormDB, err = gorm.Open("postgres", viper.GetString("orm.conn"))
	if err != nil {
		log.Panic(err)
	}

	// initialise mongodb connections
	opts := options.Client().ApplyURI(viper.GetString("mongo.conn"))
	opts.SetMaxPoolSize(viper.GetUint64("mongo.pool"))
	mongoClient, err := mongo.Connect(initialCtx, opts)
	if nil != err {
		log.Panicf("connect mongo database with error: %s", err)
	}

	if err := schema.NewMongoDBIndexer(mongoClient, viper.GetString("mongo.database")).IndexAll(); err != nil {
		log.WithError(err).Warn("fail to create mongo indexes")
	}

	mongoStore = store.NewMongoStore(mongoClient, viper.GetString("mongo.database"))
	accountStore := store.NewHelpityStore(ormDB)

	httpClient := &http.Client{
		Timeout: 10 * time.Second,
	}

	// push notification
	onesignalClient := onesignal.NewClient(httpClient, viper.GetString("onesignal.apikey"), viper.GetString("onesignal.url"))
	dispatcher := notification.NewDispatcher(
		notification.NewOnesignalGateway(viper.GetString("onesignal.appid"), onesignalClient),
		scope)
	log.WithField("prefix", "init").Info("Initialized notification dispatcher")

	// description augmentation runs without a generator when no key is set
	generator, err := textgen.New(textgen.Config{
		APIKey:    viper.GetString("textgen.apikey"),
		Model:     viper.GetString("textgen.model"),
		MaxTokens: viper.GetInt64("textgen.max_tokens"),
		BaseURL:   viper.GetString("textgen.url"),
	})
	if err != nil {
		log.WithField("prefix", "init").WithError(err).Warn("text generation disabled")
	}
	augmenter := textgen.NewAugmenter(generator, viper.GetDuration("textgen.timeout"))

	orchestrator := dispatch.NewOrchestrator(mongoStore, accountStore, augmenter, dispatcher, scope)

	// Init http server
	server = api.NewServer(mongoStore, accountStore, orchestrator, metricsHandler)
	log.WithField("prefix", "init").Info("Initialized http server")

	// Remove initial context
	initialCtx = nil
	cancelInitialization = nil

	log.Fatal(server.Run(":" + viper.GetString("server.port")))
}
