package export

// Snapshot database DDL. Every table is created fresh on each export.
const (
	createExports = `CREATE TABLE exports (
    export_id TEXT PRIMARY KEY,
    created_at TEXT NOT NULL,
    user_count INTEGER NOT NULL,
    policy_count INTEGER NOT NULL
);`

	createUsers = `CREATE TABLE users (
    name TEXT PRIMARY KEY,
    role TEXT NOT NULL
);`

	createPolicies = `CREATE TABLE policies (
    policy_id INTEGER PRIMARY KEY,
    variant TEXT NOT NULL,
    holder_id TEXT NOT NULL,
    premium REAL NOT NULL
);`

	createHomePolicies = `CREATE TABLE home_policies (
    policy_id INTEGER PRIMARY KEY,
    area_sqm INTEGER NOT NULL,
    contents_value REAL NOT NULL,
    address TEXT NOT NULL,
    construction_year INTEGER NOT NULL,
    FOREIGN KEY (policy_id) REFERENCES policies(policy_id)
);`

	createAutoPolicies = `CREATE TABLE auto_policies (
    policy_id INTEGER PRIMARY KEY,
    description TEXT NOT NULL,
    fuel_type TEXT NOT NULL,
    vehicle TEXT NOT NULL,
    coverage TEXT NOT NULL,
    roadside_assistance INTEGER NOT NULL,
    claim_count INTEGER NOT NULL,
    FOREIGN KEY (policy_id) REFERENCES policies(policy_id)
);`

	createLifePolicies = `CREATE TABLE life_policies (
    policy_id INTEGER PRIMARY KEY,
    birth_date TEXT NOT NULL,
    risk TEXT NOT NULL,
    payout_amount REAL NOT NULL,
    FOREIGN KEY (policy_id) REFERENCES policies(policy_id)
);`
)

const (
	idxPoliciesVariant = `CREATE INDEX idx_policies_variant ON policies(variant);`
	idxPoliciesHolder  = `CREATE INDEX idx_policies_holder ON policies(holder_id);`
	idxUsersRole       = `CREATE INDEX idx_users_role ON users(role);`
)

// schemaDDL lists all CREATE statements in dependency order.
var schemaDDL = []string{
	createExports,
	createUsers,
	createPolicies,
	createHomePolicies,
	createAutoPolicies,
	createLifePolicies,
	idxPoliciesVariant,
	idxPoliciesHolder,
	idxUsersRole,
}
