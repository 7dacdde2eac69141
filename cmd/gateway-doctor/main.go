package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/redis/go-redis/v9"
	"github.com/twmb/franz-go/pkg/kgo"

	"payment-gateway/internal/config"
	"payment-gateway/internal/observability"
)

// Check describes one diagnostic check against a gateway dependency.
type Check struct {
	Name     string
	Func     func(ctx context.Context) error
	Error    error
	Duration time.Duration
}

func main() {
	logger := observability.SetupLogger("development")
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	gatewayAddr := cfg.Server.Port
	if strings.HasPrefix(gatewayAddr, ":") {
		gatewayAddr = "localhost" + gatewayAddr
	}

	checks := []Check{
		{Name: "Payment Gateway", Func: func(ctx context.Context) error {
			return checkHTTPHealth(ctx, "http://"+gatewayAddr+"/health")
		}},
		{Name: "Bank Simulator", Func: func(ctx context.Context) error {
			healthURL := strings.TrimSuffix(cfg.Bank.URL, "/payments") + "/health"
			return checkHTTPHealth(ctx, healthURL)
		}},
		{Name: "Redis", Func: func(ctx context.Context) error {
			return checkRedis(ctx, cfg.Redis.Addr)
		}},
		{Name: "Kafka Cluster", Func: func(ctx context.Context) error {
			return checkKafka(ctx, strings.Split(cfg.Kafka.BootstrapServers, ","))
		}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var wg sync.WaitGroup
	for i := range checks {
		wg.Add(1)
		go func(c *Check) {
			defer wg.Done()
			start := time.Now()
			c.Error = c.Func(ctx)
			c.Duration = time.Since(start)
		}(&checks[i])
	}
	wg.Wait()

	ok := color.New(color.FgGreen).SprintFunc()
	fail := color.New(color.FgRed).SprintFunc()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "DEPENDENCY\tSTATUS\tLATENCY\tDETAIL")
	exitCode := 0
	for _, c := range checks {
		if c.Error != nil {
			fmt.Fprintf(w, "%s\t%s\t%s\t%v\n", c.Name, fail("FAIL"), c.Duration.Round(time.Millisecond), c.Error)
			exitCode = 1
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t\n", c.Name, ok("OK"), c.Duration.Round(time.Millisecond))
	}
	_ = w.Flush()
	os.Exit(exitCode)
}

func checkHTTPHealth(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}

func checkRedis(ctx context.Context, addr string) error {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	defer rdb.Close()
	return rdb.Ping(ctx).Err()
}

func checkKafka(ctx context.Context, brokers []string) error {
	client, err := kgo.NewClient(kgo.SeedBrokers(brokers...))
	if err != nil {
		return err
	}
	defer client.Close()
	return client.Ping(ctx)
}
