package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/singleflight"
)

// Gateway owns the single MongoDB connection for the process and hands out
// named collections. The connection is established lazily on first use;
// concurrent first calls are collapsed into one connect attempt, and a
// failed attempt leaves the gateway unconnected so a later call can retry.
type Gateway struct {
	uri     string
	name    string
	timeout time.Duration

	// dial is swappable so tests can count connection attempts.
	dial func(ctx context.Context, uri string, timeout time.Duration) (*mongo.Client, error)

	group singleflight.Group
	mu    sync.RWMutex
	cli   *mongo.Client
}

// NewGateway creates an unconnected gateway for the given URI and database name.
func NewGateway(uri, name string, timeout time.Duration) *Gateway {
	return &Gateway{uri: uri, name: name, timeout: timeout, dial: connect}
}

// connect opens a connection and verifies it with a ping.
func connect(ctx context.Context, uri string, timeout time.Duration) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	clientOpts := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

func (g *Gateway) client(ctx context.Context) (*mongo.Client, error) {
	g.mu.RLock()
	cli := g.cli
	g.mu.RUnlock()
	if cli != nil {
		return cli, nil
	}

	v, err, _ := g.group.Do("connect", func() (interface{}, error) {
		g.mu.RLock()
		cli := g.cli
		g.mu.RUnlock()
		if cli != nil {
			return cli, nil
		}
		cli, err := g.dial(ctx, g.uri, g.timeout)
		if err != nil {
			return nil, err
		}
		g.mu.Lock()
		g.cli = cli
		g.mu.Unlock()
		return cli, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*mongo.Client), nil
}

// Collection returns the named collection, connecting first if needed.
func (g *Gateway) Collection(ctx context.Context, name string) (*mongo.Collection, error) {
	cli, err := g.client(ctx)
	if err != nil {
		return nil, err
	}
	return cli.Database(g.name).Collection(name), nil
}

// Ping verifies the connection, establishing it if this is the first use.
func (g *Gateway) Ping(ctx context.Context) error {
	cli, err := g.client(ctx)
	if err != nil {
		return err
	}
	return cli.Ping(ctx, nil)
}

// Close disconnects the client if one was ever established.
func (g *Gateway) Close(ctx context.Context) error {
	g.mu.Lock()
	cli := g.cli
	g.cli = nil
	g.mu.Unlock()
	if cli == nil {
		return nil
	}
	return cli.Disconnect(ctx)
}
