// Package database exposes SQL access to guest code through the
// host-function bridge.
package database

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	// Import common database drivers
	_ "github.com/denisenkom/go-mssqldb"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite" // pure Go SQLite driver, registered as "sqlite"

	"rove/internal/runtime"
)

// Module is the guest-visible database object. Its exported methods are
// bound as fixed-arity host routines.
type Module struct {
	runtime.ScriptableObject

	mu    sync.RWMutex
	conns map[string]*Connection
}

// Connection represents one open database handle.
type Connection struct {
	ID         string
	Driver     string
	DSN        string
	DB         *sql.DB
	LastAccess time.Time
}

// New creates an empty database module.
func New() *Module {
	return &Module{conns: make(map[string]*Connection)}
}

func (m *Module) ClassName() string { return "Database" }

// Open connects to a database and returns the connection ID.
func (m *Module) Open(driver, dsn string) (string, error) {
	switch driver {
	case "mysql", "postgres", "sqlserver", "sqlite3", "sqlite":
	default:
		return "", fmt.Errorf("unsupported driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return "", fmt.Errorf("open %s: %v", driver, err)
	}

	conn := &Connection{
		ID:         uuid.NewString(),
		Driver:     driver,
		DSN:        dsn,
		DB:         db,
		LastAccess: time.Now(),
	}

	m.mu.Lock()
	m.conns[conn.ID] = conn
	m.mu.Unlock()

	return conn.ID, nil
}

// Exec runs a statement and returns the affected row count.
func (m *Module) Exec(id, query string) (float64, error) {
	conn, err := m.get(id)
	if err != nil {
		return 0, err
	}

	res, err := conn.DB.Exec(query)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return float64(n), nil
}

// Query runs a query and returns the rows as a guest array of row objects.
func (m *Module) Query(id, query string) (runtime.Value, error) {
	conn, err := m.get(id)
	if err != nil {
		return nil, err
	}

	rows, err := conn.DB.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := make([]runtime.Value, 0)
	for rows.Next() {
		raw := make([]interface{}, len(columns))
		ptrs := make([]interface{}, len(columns))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		row := runtime.NewScriptableObject("Row")
		row.SetParentScope(m.ParentScope())
		row.SetPrototype(m.Prototype())
		for i, col := range columns {
			row.Put(col, guestValue(raw[i]))
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// CloseConn closes a connection and forgets its ID.
func (m *Module) CloseConn(id string) (bool, error) {
	m.mu.Lock()
	conn, ok := m.conns[id]
	if ok {
		delete(m.conns, id)
	}
	m.mu.Unlock()

	if !ok {
		return false, fmt.Errorf("connection %s not found", id)
	}
	return true, conn.DB.Close()
}

func (m *Module) get(id string) (*Connection, error) {
	m.mu.RLock()
	conn, ok := m.conns[id]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("connection %s not found", id)
	}
	conn.LastAccess = time.Now()
	return conn, nil
}

// guestValue converts one scanned SQL value to its guest representation.
func guestValue(v interface{}) runtime.Value {
	switch val := v.(type) {
	case nil:
		return nil
	case bool:
		return val
	case int64:
		return float64(val)
	case float64:
		return val
	case []byte:
		return string(val)
	case string:
		return val
	case time.Time:
		return val.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", val)
	}
}
