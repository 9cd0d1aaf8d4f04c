// internal/adapters/storage/sqlite/schema.go
package sqlite

// Schema creates the opportunity table. List columns hold JSON arrays.
const Schema = `
CREATE TABLE IF NOT EXISTS opportunities (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    organization TEXT NOT NULL,
    url TEXT NOT NULL,
    application_url TEXT NOT NULL DEFAULT '',
    type TEXT NOT NULL CHECK(type IN ('INTERNSHIP', 'SCHOLARSHIP', 'SUMMER_PROGRAM', 'RESEARCH', 'COMPETITION')),
    education_level TEXT NOT NULL CHECK(education_level IN ('HIGH_SCHOOL', 'UNDERGRADUATE', 'GRADUATE', 'POSTGRADUATE', 'ALL_LEVELS')),
    country TEXT NOT NULL,
    fields TEXT NOT NULL DEFAULT '[]',
    description TEXT NOT NULL,
    duration TEXT NOT NULL,
    eligibility TEXT NOT NULL,
    funding TEXT NOT NULL,
    deadline TIMESTAMP,
    tags TEXT NOT NULL DEFAULT '[]',
    requirements TEXT NOT NULL DEFAULT '[]',
    benefits TEXT NOT NULL DEFAULT '[]',
    source TEXT NOT NULL,
    source_type TEXT NOT NULL,
    approved BOOLEAN NOT NULL DEFAULT 0,
    broken BOOLEAN NOT NULL DEFAULT 0,
    last_checked TIMESTAMP NOT NULL,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);`

// Indexes back the exact-match lookup and the link checker scan.
const Indexes = `
CREATE INDEX IF NOT EXISTS idx_opportunities_url ON opportunities(url);
CREATE INDEX IF NOT EXISTS idx_opportunities_application_url ON opportunities(application_url);
CREATE INDEX IF NOT EXISTS idx_opportunities_links ON opportunities(approved, last_checked);`
