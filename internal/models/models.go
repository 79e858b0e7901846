package models

import (
	"time"
)

// DayUsage is one shared quota counter per (UTC day, scope). Rows are created
// on first use and only ever incremented; old days are kept for auditing.
type DayUsage struct {
	Day   string `gorm:"primaryKey;type:varchar(10);not null"`
	Scope string `gorm:"primaryKey;type:varchar(128);not null"`
	Count int    `gorm:"not null;default:0"`
}

// MinuteUsage is one shared quota counter per (minute bucket, scope), where
// the bucket is unix seconds divided by 60. Buckets older than the retention
// window are pruned by the quota gate.
type MinuteUsage struct {
	Minute int64  `gorm:"primaryKey;autoIncrement:false;not null"`
	Scope  string `gorm:"primaryKey;type:varchar(128);not null"`
	Count  int    `gorm:"not null;default:0"`
}

type AccessLog struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	Timestamp time.Time `gorm:"index;not null"`
	RequestID string    `gorm:"type:varchar(64)"`
	Method    string    `gorm:"type:varchar(10);not null"`
	Path      string    `gorm:"type:text;not null;index:,length:256"`
	Status    int       `gorm:"not null;index"`
	Duration  time.Duration
	ClientIP  string `gorm:"type:varchar(45);not null"`
	UserAgent string `gorm:"type:text"`
	BytesSent int    `gorm:"not null;default:0"`
}

func (DayUsage) TableName() string {
	return "usage_day"
}

func (MinuteUsage) TableName() string {
	return "usage_minute"
}

func (AccessLog) TableName() string {
	return "access_logs"
}
