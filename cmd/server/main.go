package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"catalog/internal/cache"
	"catalog/internal/config"
	mydb "catalog/internal/db"
	"catalog/internal/handlers"
	"catalog/internal/middleware"
	"catalog/internal/repository"
	"catalog/internal/uploads"
)

func main() {
	config.LoadEnvFiles()
	settings, err := config.Load()
	if err != nil {
		if wd, wdErr := os.Getwd(); wdErr == nil {
			log.Println("CWD:", wd)
		}
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := mydb.Open(settings.DBDSN)
	if err != nil {
		log.Fatal(err)
	}
	if err := mydb.Migrate(db); err != nil {
		log.Fatal(err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal(err)
	}
	defer sqlDB.Close()

	var store repository.ProductStore = repository.NewGormProductStore(db)
	if settings.CacheEnabled() {
		rdb, err := cache.Connect(ctx, settings.RedisAddr, settings.RedisPassword, settings.RedisDB)
		if err != nil {
			log.Fatal(err)
		}
		defer rdb.Close()
		store = cache.New(store, rdb, settings.CacheTTL)
		log.Println("product cache enabled:", settings.RedisAddr)
	}

	var (
		images    uploads.Store
		uploadDir string
		source    uploads.Source
	)
	switch settings.ImageBackend {
	case config.BackendS3:
		svc, err := uploads.NewS3Client(settings.AWSRegion)
		if err != nil {
			log.Fatal(err)
		}
		s3store := uploads.NewS3Store(svc, settings.S3Bucket)
		images, source = s3store, s3store
		log.Println("images stored in s3 bucket", settings.S3Bucket)
	default:
		disk := uploads.NewDiskStore(settings.AppRoot)
		images, uploadDir = disk, disk.Dir()
	}

	guard := middleware.MustAdmin(settings.AdminTokenHash)
	if settings.AdminTokenHash == "" {
		log.Println("WARN: ADMIN_TOKEN_HASH is empty; write routes are open")
	}

	r := gin.Default()
	handlers.RegisterRoutes(r, handlers.NewProductHandler(store, images), handlers.RouterConfig{
		DB:        sqlDB,
		Guard:     guard,
		UploadDir: uploadDir,
		Images:    source,
	})

	srv := &http.Server{
		Handler: r,
		Addr:    net.JoinHostPort("", settings.Port),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Println("Server listening on :" + settings.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Println("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), settings.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal(err)
	}
	log.Println("Server exiting")
}
