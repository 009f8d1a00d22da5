package sqlite

// schema contains the database schema DDL.
const schema = `
-- Matrix spec profiles
CREATE TABLE IF NOT EXISTS profiles (
    name TEXT PRIMARY KEY,
    gpio_pin INTEGER NOT NULL,
    led_count INTEGER NOT NULL,
    led_freq_hz INTEGER NOT NULL,
    dma_channel INTEGER NOT NULL,
    invert INTEGER NOT NULL DEFAULT 0,
    brightness REAL NOT NULL,
    width_count INTEGER NOT NULL,
    height_count INTEGER NOT NULL,
    topology TEXT NOT NULL DEFAULT 'serpentine-row',
    color_order TEXT NOT NULL DEFAULT 'GRB',
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Configuration
CREATE TABLE IF NOT EXISTS config (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`
