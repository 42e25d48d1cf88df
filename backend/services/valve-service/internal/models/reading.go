package models

import "time"

// MaxDeviceIDLength bounds device_id, matching the column width.
const MaxDeviceIDLength = 50

// EnergyReading represents a single sample from a valve/heat meter.
type EnergyReading struct {
	ID                int64      `db:"id" json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	DeviceID          string     `db:"device_id" json:"device_id" gorm:"column:device_id;size:50;not null;index"`
	SampleTime        *time.Time `db:"sample_time" json:"sample_time" gorm:"column:sample_time;index"`
	T1RemoteK         *float64   `db:"t1_remote_k" json:"t1_remote_k" gorm:"column:t1_remote_k"`
	T2EmbeddedK       *float64   `db:"t2_embedded_k" json:"t2_embedded_k" gorm:"column:t2_embedded_k"`
	DeltaTK           *float64   `db:"delta_t_k" json:"delta_t_k" gorm:"column:delta_t_k"`
	FlowVolumeTotalM3 *float64   `db:"flow_volume_total_m3" json:"flow_volume_total_m3" gorm:"column:flow_volume_total_m3"`
	OperatingHours    *float64   `db:"operating_hours" json:"operating_hours" gorm:"column:operating_hours"`
}

// TableName pins the gorm table name to the Postgres one.
func (EnergyReading) TableName() string {
	return "energy_valve_data"
}
