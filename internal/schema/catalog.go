// Package schema holds the n8n table catalog: migration order, declared
// foreign-key dependencies and the tables checked after a run.
//
// All catalog data is read-only. Accessors hand out copies so callers can
// never mutate the shared tables.
package schema

// TableSpec names a table and the tables it references.
type TableSpec struct {
	Name      string
	DependsOn []string
}

// catalog lists every migrated table in a valid foreign-key order: each
// table appears after every table it references.
var catalog = []TableSpec{
	// Core tables first
	{Name: "migrations"},
	{Name: "settings"},
	{Name: "role"},
	{Name: "scope"},
	{Name: "role_scope", DependsOn: []string{"role", "scope"}},
	{Name: "user", DependsOn: []string{"role"}},
	{Name: "auth_identity", DependsOn: []string{"user"}},
	{Name: "auth_provider_sync_history"},
	{Name: "user_api_keys", DependsOn: []string{"user"}},

	// Projects and folders
	{Name: "project"},
	{Name: "project_relation", DependsOn: []string{"project", "user", "role"}},
	{Name: "folder", DependsOn: []string{"project"}},

	// Tags
	{Name: "tag_entity"},
	{Name: "annotation_tag_entity"},
	{Name: "folder_tag", DependsOn: []string{"folder", "tag_entity"}},

	// Credentials
	{Name: "credentials_entity"},
	{Name: "shared_credentials", DependsOn: []string{"credentials_entity", "project", "role"}},

	// Workflows
	{Name: "workflow_entity", DependsOn: []string{"folder"}},
	{Name: "shared_workflow", DependsOn: []string{"workflow_entity", "project", "role"}},
	{Name: "workflow_history", DependsOn: []string{"workflow_entity"}},
	{Name: "workflow_statistics", DependsOn: []string{"workflow_entity"}},
	{Name: "workflows_tags", DependsOn: []string{"workflow_entity", "tag_entity"}},
	{Name: "workflow_dependency", DependsOn: []string{"workflow_entity"}},

	// Webhooks
	{Name: "webhook_entity", DependsOn: []string{"workflow_entity"}},

	// Executions
	{Name: "execution_entity", DependsOn: []string{"workflow_entity"}},
	{Name: "execution_data", DependsOn: []string{"execution_entity"}},
	{Name: "execution_metadata", DependsOn: []string{"execution_entity"}},
	{Name: "execution_annotations", DependsOn: []string{"execution_entity"}},
	{Name: "execution_annotation_tags", DependsOn: []string{"execution_annotations", "annotation_tag_entity"}},

	// Variables and data
	{Name: "variables", DependsOn: []string{"project"}},
	{Name: "processed_data", DependsOn: []string{"workflow_entity"}},
	{Name: "data_table", DependsOn: []string{"project"}},
	{Name: "data_table_column", DependsOn: []string{"data_table"}},

	// Testing
	{Name: "test_run", DependsOn: []string{"workflow_entity"}},
	{Name: "test_case_execution", DependsOn: []string{"test_run", "execution_entity"}},

	// Installed packages
	{Name: "installed_packages"},
	{Name: "installed_nodes", DependsOn: []string{"installed_packages"}},

	// Event destinations
	{Name: "event_destinations"},

	// Insights
	{Name: "insights_metadata", DependsOn: []string{"workflow_entity", "project"}},
	{Name: "insights_raw", DependsOn: []string{"insights_metadata"}},
	{Name: "insights_by_period", DependsOn: []string{"insights_metadata"}},

	// Chat hub
	{Name: "chat_hub_sessions", DependsOn: []string{"user", "credentials_entity", "workflow_entity"}},
	{Name: "chat_hub_messages", DependsOn: []string{"chat_hub_sessions", "workflow_entity", "execution_entity"}},

	// Tokens
	{Name: "invalid_auth_token"},
}

// VerificationTarget is a destination table whose row count is reported after a run.
type VerificationTarget struct {
	Label string
	Table string
}

var verificationTargets = []VerificationTarget{
	{Label: "Workflows", Table: "workflow_entity"},
	{Label: "Credentials", Table: "credentials_entity"},
	{Label: "Executions", Table: "execution_entity"},
}

// TableOrder returns the fixed migration order.
func TableOrder() []string {
	order := make([]string, len(catalog))
	for i, spec := range catalog {
		order[i] = spec.Name
	}
	return order
}

// Tables returns a copy of the full catalog, dependencies included.
func Tables() []TableSpec {
	specs := make([]TableSpec, len(catalog))
	for i, spec := range catalog {
		specs[i] = TableSpec{
			Name:      spec.Name,
			DependsOn: append([]string(nil), spec.DependsOn...),
		}
	}
	return specs
}

// Dependencies returns the tables the given table references, or nil.
func Dependencies(table string) []string {
	for _, spec := range catalog {
		if spec.Name == table {
			return append([]string(nil), spec.DependsOn...)
		}
	}
	return nil
}

// IsKnownTable reports whether the table is part of the catalog.
func IsKnownTable(table string) bool {
	for _, spec := range catalog {
		if spec.Name == table {
			return true
		}
	}
	return false
}

// VerificationTargets returns the tables counted after a migration.
func VerificationTargets() []VerificationTarget {
	return append([]VerificationTarget(nil), verificationTargets...)
}

// FilterOrder keeps only the requested tables, preserving the order of
// the given sequence. Names outside the catalog are returned as unknown;
// catalog tables absent from the sequence are left out.
func FilterOrder(order, wanted []string) (kept, unknown []string) {
	if len(wanted) == 0 {
		return append([]string(nil), order...), nil
	}

	want := make(map[string]bool, len(wanted))
	for _, name := range wanted {
		want[name] = true
	}

	for _, name := range order {
		if want[name] {
			kept = append(kept, name)
			delete(want, name)
		}
	}
	for _, name := range wanted {
		if !want[name] {
			continue
		}
		delete(want, name)
		if !IsKnownTable(name) {
			unknown = append(unknown, name)
		}
	}
	return kept, unknown
}
