package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"text/tabwriter"

	"cloud.google.com/go/firestore"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/cartsync/internal/cart"
	"github.com/nikolayk812/cartsync/internal/config"
	"github.com/nikolayk812/cartsync/internal/domain"
	"github.com/nikolayk812/cartsync/internal/inventory"
	"github.com/nikolayk812/cartsync/internal/logger"
	"github.com/nikolayk812/cartsync/internal/notify"
	"github.com/nikolayk812/cartsync/internal/observability"
	"github.com/nikolayk812/cartsync/internal/port"
	"github.com/nikolayk812/cartsync/internal/repository"
	"github.com/nikolayk812/cartsync/internal/shutdown"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
)

const usage = `usage: cart <command> [args]

commands:
  list                     show the cart
  catalog                  show products offered by the inventory service
  add <product-id>         add one unit of a product
  remove <product-id>      remove a product from the cart
  update <product-id> <n>  set the amount of a product
`

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errRejected) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// errRejected marks a cart operation that did not apply; the user was
// already told why through the notifier.
var errRejected = errors.New("operation rejected")

func run(args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		return errors.New(usage)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	log := logger.New(logger.Options{Service: "cart", Env: cfg.AppEnv, Level: cfg.LogLevel})

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	instruments, shutdownTelemetry, err := observability.Init(ctx, "cart", cfg.AppEnv, cfg.TelemetryEnabled, log)
	if err != nil {
		return fmt.Errorf("observability.Init: %w", err)
	}
	defer func() {
		if err := shutdownTelemetry(context.WithoutCancel(ctx)); err != nil {
			log.Warn("telemetry shutdown", slog.String("error", err.Error()))
		}
	}()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	client, err := inventory.NewClient(cfg.InventoryBaseURL, inventory.WithTimeout(cfg.InventoryTimeout))
	if err != nil {
		return fmt.Errorf("inventory.NewClient: %w", err)
	}

	notifier := notify.Multi(notify.NewWriter(stderr), notify.NewLog(log))

	manager, err := cart.NewManager(ctx, store, client, notifier,
		cart.WithLogger(log),
		cart.WithStorageKey(cfg.StorageKey),
	)
	if err != nil {
		return fmt.Errorf("cart.NewManager: %w", err)
	}

	svc := observability.NewCartService(manager,
		observability.WithLogger(log),
		observability.WithTracer(instruments.Tracer("cart")),
		observability.WithMeter(instruments.Meter("cart")),
	)

	return dispatch(ctx, args, svc, client, cfg.Currency, stdout)
}

func dispatch(ctx context.Context, args []string, svc port.CartService, client *inventory.Client, unit currency.Unit, stdout io.Writer) error {
	cmd, rest := args[0], args[1:]

	switch cmd {
	case "list":
		return printCart(stdout, svc.Cart(), unit)

	case "catalog":
		products, err := client.ListProducts(ctx)
		if err != nil {
			return fmt.Errorf("client.ListProducts: %w", err)
		}
		return printProducts(stdout, products, unit)

	case "add":
		id, err := parseID(rest, 1)
		if err != nil {
			return err
		}
		if err := svc.AddProduct(ctx, id); err != nil {
			return errRejected
		}
		return printCart(stdout, svc.Cart(), unit)

	case "remove":
		id, err := parseID(rest, 1)
		if err != nil {
			return err
		}
		if err := svc.RemoveProduct(ctx, id); err != nil {
			return errRejected
		}
		return printCart(stdout, svc.Cart(), unit)

	case "update":
		id, err := parseID(rest, 2)
		if err != nil {
			return err
		}
		amount, err := strconv.Atoi(rest[1])
		if err != nil {
			return fmt.Errorf("amount %q is not a number", rest[1])
		}
		if err := svc.UpdateProductAmount(ctx, domain.AmountUpdate{ProductID: id, Amount: amount}); err != nil {
			return errRejected
		}
		return printCart(stdout, svc.Cart(), unit)

	default:
		return fmt.Errorf("unknown command %q\n\n%s", cmd, usage)
	}
}

func parseID(args []string, want int) (int64, error) {
	if len(args) != want {
		return 0, errors.New(usage)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("product id %q is not a number", args[0])
	}
	return id, nil
}

func openStore(ctx context.Context, cfg config.Config) (port.SnapshotStore, func(), error) {
	noop := func() {}

	switch cfg.Storage {
	case config.StorageMemory:
		return repository.NewMemorySnapshot(), noop, nil

	case config.StoragePostgres:
		pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("pgxpool.New: %w", err)
		}
		return repository.NewCartSnapshot(pool), pool.Close, nil

	case config.StorageFirestore:
		client, err := firestore.NewClient(ctx, cfg.FirestoreProjectID)
		if err != nil {
			return nil, nil, fmt.Errorf("firestore.NewClient: %w", err)
		}
		store, err := repository.NewFirestoreSnapshot(client, cfg.FirestoreCollection)
		if err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("repository.NewFirestoreSnapshot: %w", err)
		}
		return store, func() { _ = client.Close() }, nil

	default:
		store, err := repository.NewFileSnapshot(cfg.StorageDir)
		if err != nil {
			return nil, nil, fmt.Errorf("repository.NewFileSnapshot: %w", err)
		}
		return store, noop, nil
	}
}

func printCart(w io.Writer, c domain.Cart, unit currency.Unit) error {
	if c.Len() == 0 {
		_, err := fmt.Fprintln(w, "cart is empty")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPRODUCT\tPRICE\tAMOUNT")
	for _, item := range c.Items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\n", item.ID, item.Title, item.PriceIn(unit).Format(language.English), item.Amount)
	}
	return tw.Flush()
}

func printProducts(w io.Writer, products []domain.Product, unit currency.Unit) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPRODUCT\tPRICE")
	for _, p := range products {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", p.ID, p.Title, p.PriceIn(unit).Format(language.English))
	}
	return tw.Flush()
}
