package connector

import (
	"database/sql"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ConnectionStats represents database connection pool statistics.
type ConnectionStats struct {
	OpenConnections int `json:"open_connections"`
	InUse           int `json:"in_use"`
	Idle            int `json:"idle"`
}

func pgxStats(s *pgxpool.Stat) ConnectionStats {
	return ConnectionStats{
		OpenConnections: int(s.TotalConns()),
		InUse:           int(s.AcquiredConns()),
		Idle:            int(s.IdleConns()),
	}
}

func sqlStats(s sql.DBStats) ConnectionStats {
	return ConnectionStats{
		OpenConnections: s.OpenConnections,
		InUse:           s.InUse,
		Idle:            s.Idle,
	}
}
