package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/dermio/blog-contract-tests/apiserver"
	"github.com/dermio/blog-contract-tests/client"
	"github.com/dermio/blog-contract-tests/fixtures"
	"github.com/dermio/blog-contract-tests/framework"
	"github.com/dermio/blog-contract-tests/posttests"
	"github.com/dermio/blog-contract-tests/store"
)

const defaultEmbeddedPort = 8310
const serviceStartupTimeout = time.Second * 10

func main() {
	// .env is optional; it can carry MONGO_URI and TEST_DATABASE defaults.
	_ = godotenv.Load()

	var params commandParams
	if !params.Read(os.Args) {
		os.Exit(1)
	}

	results, err := run(params)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	fmt.Println()
	framework.PrintResults(*results)
	if !results.OK() {
		fmt.Println()
		fmt.Println("To re-run only the failed tests:")
		fmt.Printf("  %s\n", rerunFailedTestsCommand(params, *results))
		os.Exit(1)
	}
}

func run(params commandParams) (*framework.Results, error) {
	ctx := context.Background()

	mainDebugLogger := framework.NullLogger()
	if params.debugAll {
		mainDebugLogger = log.New(os.Stdout, "", log.LstdFlags)
	}

	posts, serviceURL, cleanup, err := setUpTarget(ctx, params, mainDebugLogger)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	fmt.Printf("Connecting to blog API service at %s\n", serviceURL)
	apiClient, err := client.NewAPIClient(serviceURL, serviceStartupTimeout, mainDebugLogger)
	if err != nil {
		return nil, fmt.Errorf("the API service is not responding: %w", err)
	}

	fmt.Println("Running test suite")
	testLogger := framework.ConsoleTestLogger{
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
	}
	results := posttests.RunTestSuite(apiClient, posts, fixtures.NewRandomized(), params.filters.AsFilter, testLogger)

	if params.stopServiceAtEnd {
		fmt.Println("Stopping the API service")
		if err := apiClient.StopService(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to stop the API service: %s\n", err)
		}
	}

	return &results, nil
}

// setUpTarget prepares the store and service URL for the selected mode:
// either an external service sharing a MongoDB database with the harness, or
// the embedded reference server on an in-memory store.
func setUpTarget(ctx context.Context, params commandParams, logger framework.Logger) (store.PostStore, string, func(), error) {
	if params.embedded {
		posts := store.NewMemoryStore()
		server, err := apiserver.Start(params.embeddedPort, posts, logger)
		if err != nil {
			return nil, "", nil, fmt.Errorf("starting the embedded API server: %w", err)
		}
		url := fmt.Sprintf("http://localhost:%d", params.embeddedPort)
		cleanup := func() {
			_ = server.Shutdown(context.Background())
		}
		return posts, url, cleanup, nil
	}

	fmt.Printf("Connecting to MongoDB at %s (database %q)\n", params.mongoURI, params.database)
	posts, err := store.NewMongoStore(ctx, params.mongoURI, params.database)
	if err != nil {
		return nil, "", nil, err
	}
	cleanup := func() {
		if err := posts.Close(context.Background()); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to close the MongoDB connection: %s\n", err)
		}
	}
	return posts, params.serviceURL, cleanup, nil
}
