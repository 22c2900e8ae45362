package session

import (
	"encoding/json"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DBSession is the persisted form of a Session.
type DBSession struct {
	gorm.Model
	SessionID  string `gorm:"uniqueIndex;not null"`
	Codename   string
	Payload    string
	RemoteAddr string
	LocalAddr  string
	Platform   string
	Arch       string
	OpenedAt   time.Time
}

// DBPayloadBuild records a generated payload artifact.
type DBPayloadBuild struct {
	gorm.Model
	BuildID   string `gorm:"uniqueIndex;not null"`
	Payload   string `gorm:"not null"`
	Arch      string
	Format    string
	Encoder   string // empty when no encoder was applied
	Nop       string // empty when no sled was prepended
	Size      int64
	SHA256    string
	BuildTime time.Duration
	Options   string // JSON encoded map[string]string
}

// Build is the in-memory form of a DBPayloadBuild row.
type Build struct {
	BuildID   string
	Payload   string
	Arch      string
	Format    string
	Encoder   string
	Nop       string
	Size      int64
	SHA256    string
	BuildTime time.Duration
	Options   map[string]string
	Created   time.Time
}

// Database wraps the sqlite store for sessions and builds.
type Database struct {
	db *gorm.DB
}

// Open opens (or creates) the database at path and migrates the
// schema.
func Open(path string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent), // reduce log noise
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&DBSession{}, &DBPayloadBuild{}); err != nil {
		return nil, err
	}
	return &Database{db: db}, nil
}

// SaveSession persists an established session.
func (d *Database) SaveSession(s *Session) error {
	row := &DBSession{
		SessionID:  s.ID,
		Codename:   s.Codename,
		Payload:    s.Payload,
		RemoteAddr: s.RemoteAddr,
		LocalAddr:  s.LocalAddr,
		Platform:   s.Platform,
		Arch:       s.Arch,
		OpenedAt:   s.Opened,
	}
	return d.db.Create(row).Error
}

// Sessions returns every recorded session, oldest first.
func (d *Database) Sessions() ([]*Session, error) {
	var rows []DBSession
	if err := d.db.Order("opened_at").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*Session, 0, len(rows))
	for _, row := range rows {
		out = append(out, &Session{
			ID:         row.SessionID,
			Codename:   row.Codename,
			Payload:    row.Payload,
			RemoteAddr: row.RemoteAddr,
			LocalAddr:  row.LocalAddr,
			Platform:   row.Platform,
			Arch:       row.Arch,
			Opened:     row.OpenedAt,
		})
	}
	return out, nil
}

// SaveBuild persists a payload build record.
func (d *Database) SaveBuild(b *Build) error {
	optsJSON, _ := json.Marshal(b.Options)
	row := &DBPayloadBuild{
		BuildID:   b.BuildID,
		Payload:   b.Payload,
		Arch:      b.Arch,
		Format:    b.Format,
		Encoder:   b.Encoder,
		Nop:       b.Nop,
		Size:      b.Size,
		SHA256:    b.SHA256,
		BuildTime: b.BuildTime,
		Options:   string(optsJSON),
	}
	return d.db.Create(row).Error
}

// Builds returns every recorded payload build, newest first.
func (d *Database) Builds() ([]*Build, error) {
	var rows []DBPayloadBuild
	if err := d.db.Order("created_at desc").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*Build, 0, len(rows))
	for _, row := range rows {
		var opts map[string]string
		json.Unmarshal([]byte(row.Options), &opts)
		out = append(out, &Build{
			BuildID:   row.BuildID,
			Payload:   row.Payload,
			Arch:      row.Arch,
			Format:    row.Format,
			Encoder:   row.Encoder,
			Nop:       row.Nop,
			Size:      row.Size,
			SHA256:    row.SHA256,
			BuildTime: row.BuildTime,
			Options:   opts,
			Created:   row.CreatedAt,
		})
	}
	return out, nil
}

// Close releases the underlying connection pool.
func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
