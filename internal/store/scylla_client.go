package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gocql/gocql"
	"go.uber.org/zap"

	"snapdish/internal/config"
	"snapdish/internal/util"
)

// PreparedStatements holds the queries used by the Scylla user store.
type PreparedStatements struct {
	CreateUser      *gocql.Query
	GetUserByEmail  *gocql.Query
	UpdateLastLogin *gocql.Query
}

type ScyllaClient struct {
	Session      *gocql.Session
	Prepared     *PreparedStatements
	prepareMutex sync.Mutex
	isPrepared   bool
}

func NewScyllaClient(cfg *config.Config, logger *zap.Logger) (*ScyllaClient, error) {
	cluster := gocql.NewCluster(cfg.ScyllaNodes...)
	cluster.Keyspace = cfg.ScyllaKeyspace
	cluster.Consistency = gocql.LocalQuorum
	cluster.Timeout = 10 * time.Second
	cluster.ConnectTimeout = 10 * time.Second
	cluster.NumConns = 4
	cluster.SocketKeepalive = 30 * time.Second
	cluster.RetryPolicy = &gocql.ExponentialBackoffRetryPolicy{
		Min:        time.Second,
		Max:        10 * time.Second,
		NumRetries: 3,
	}

	session, err := cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("failed to create scylla session: %w", err)
	}

	client := &ScyllaClient{Session: session}

	if err := client.prepareStatements(); err != nil {
		session.Close()
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}

	logger.Info("ScyllaDB client initialized with prepared statements",
		zap.Strings("nodes", cfg.ScyllaNodes),
		zap.String("keyspace", cfg.ScyllaKeyspace))

	return client, nil
}

func (s *ScyllaClient) prepareStatements() error {
	s.prepareMutex.Lock()
	defer s.prepareMutex.Unlock()

	if s.isPrepared {
		return nil
	}

	prepared := &PreparedStatements{}

	// IF NOT EXISTS makes the insert a conditional put: two racing
	// signups on the same email resolve to exactly one applied write.
	prepared.CreateUser = s.Session.Query(`
        INSERT INTO users (
            email_bucket, email, user_id, hashed_password, created_at, last_login
        ) VALUES (?, ?, ?, ?, ?, ?) IF NOT EXISTS`)

	prepared.GetUserByEmail = s.Session.Query(`
        SELECT email, user_id, hashed_password, created_at, last_login
        FROM users WHERE email_bucket = ? AND email = ?`)

	prepared.UpdateLastLogin = s.Session.Query(`
        UPDATE users SET last_login = ? WHERE email_bucket = ? AND email = ?`)

	s.Prepared = prepared
	s.isPrepared = true

	util.Info("ScyllaDB prepared statements created successfully")
	return nil
}

func (s *ScyllaClient) Close() {
	if s.Session != nil {
		s.Session.Close()
		util.Info("ScyllaDB client closed")
	}
}

func (s *ScyllaClient) HealthCheck(ctx context.Context) error {
	var clusterName string
	err := s.Session.Query(`SELECT cluster_name FROM system.local`).WithContext(ctx).Scan(&clusterName)
	if err != nil {
		return fmt.Errorf("scylla health check failed: %w", err)
	}

	util.Debug("ScyllaDB health check passed", zap.String("cluster_name", clusterName))
	return nil
}
