package repository

// schemaSQL creates the readings table and its lookup indexes.
const schemaSQL = `
	CREATE TABLE IF NOT EXISTS energy_valve_data (
		id                   BIGSERIAL PRIMARY KEY,
		device_id            VARCHAR(50) NOT NULL,
		sample_time          TIMESTAMPTZ,
		t1_remote_k          DOUBLE PRECISION,
		t2_embedded_k        DOUBLE PRECISION,
		delta_t_k            DOUBLE PRECISION,
		flow_volume_total_m3 DOUBLE PRECISION,
		operating_hours      DOUBLE PRECISION
	);
	CREATE INDEX IF NOT EXISTS idx_energy_valve_data_device_id ON energy_valve_data (device_id);
	CREATE INDEX IF NOT EXISTS idx_energy_valve_data_sample_time ON energy_valve_data (sample_time);
`

var readingColumns = []string{
	"device_id",
	"sample_time",
	"t1_remote_k",
	"t2_embedded_k",
	"delta_t_k",
	"flow_volume_total_m3",
	"operating_hours",
}
