// catalog-dump fetches the product feed once and writes it to a local
// snapshot file for offline use with the snapshot catalog source. Files
// ending in .gz are compressed with pgzip.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"

	"github.com/xenking/shopview/internal/source/dummyjson"
)

func main() {
	var (
		baseURL string
		outPath string
	)

	flag.StringVar(&baseURL, "catalog-url", dummyjson.DefaultBaseURL, "product feed base URL")
	flag.StringVar(&outPath, "out", "products.json.gz", "snapshot output path (.gz enables compression)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, baseURL, outPath); err != nil {
		slog.Error("catalog dump failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, baseURL, outPath string) error {
	client := dummyjson.New(baseURL)
	products, err := client.FetchProducts(ctx)
	if err != nil {
		return errors.Wrap(err, "fetch products")
	}
	slog.Info("fetched products", slog.Int("count", len(products)))

	data := dummyjson.EncodePage(products)

	f, err := os.Create(outPath)
	if err != nil {
		return errors.Wrap(err, "create output file")
	}
	defer f.Close()

	if strings.HasSuffix(outPath, ".gz") {
		gz := pgzip.NewWriter(f)
		if _, err := gz.Write(data); err != nil {
			return errors.Wrap(err, "write compressed snapshot")
		}
		if err := gz.Close(); err != nil {
			return errors.Wrap(err, "close gzip writer")
		}
	} else if _, err := f.Write(data); err != nil {
		return errors.Wrap(err, "write snapshot")
	}

	slog.Info("snapshot written", slog.String("path", outPath))
	return nil
}
