package schema

import "strings"

// renames maps table -> lowercase source column -> destination column.
var renames = map[string]map[string]string{
	"installed_packages": {
		"packagename":      "packageName",
		"installedversion": "installedVersion",
		"authorname":       "authorName",
		"authoremail":      "authorEmail",
	},
	"installed_nodes": {
		"latestversion": "latestVersion",
	},
	"auth_identity": {
		"userid":       "userId",
		"providerid":   "providerId",
		"providertype": "providerType",
		"createdat":    "createdAt",
		"updatedat":    "updatedAt",
	},
	"auth_provider_sync_history": {
		"providertype": "providerType",
	},
	"tag_entity": {
		"createdat": "createdAt",
		"updatedat": "updatedAt",
	},
	"workflows_tags": {
		"workflowid": "workflowId",
		"tagid":      "tagId",
	},
	"workflow_statistics": {
		"workflowid":  "workflowId",
		"latestevent": "latestEvent",
		"rootcount":   "rootCount",
	},
	"webhook_entity": {
		"workflowid":  "workflowId",
		"webhookpath": "webhookPath",
		"webhookid":   "webhookId",
		"pathlength":  "pathLength",
	},
	"execution_data": {
		"workflowdata": "workflowData",
	},
	"workflow_history": {
		"versionid":  "versionId",
		"workflowid": "workflowId",
		"createdat":  "createdAt",
		"updatedat":  "updatedAt",
	},
	"credentials_entity": {
		"createdat": "createdAt",
		"updatedat": "updatedAt",
	},
	"shared_credentials": {
		"credentialsid": "credentialsId",
		"projectid":     "projectId",
	},
	"shared_workflow": {
		"workflowid": "workflowId",
		"projectid":  "projectId",
	},
	"execution_metadata": {
		"executionid": "executionId",
	},
	"invalid_auth_token": {},
	"execution_annotations": {
		"executionid": "executionId",
	},
	"annotation_tag_entity": {
		"createdat": "createdAt",
		"updatedat": "updatedAt",
	},
	"execution_annotation_tags": {
		"annotationid": "annotationId",
		"tagid":        "tagId",
	},
	"execution_entity": {
		"workflowid":     "workflowId",
		"retryof":        "retryOf",
		"retrysuccessid": "retrySuccessId",
		"startedat":      "startedAt",
		"stoppedat":      "stoppedAt",
		"waittill":       "waitTill",
		"workflowdata":   "workflowData",
		"customdata":     "customData",
	},
	"processed_data": {
		"workflowid": "workflowId",
	},
	"folder": {
		"parentfolderid": "parentFolderId",
		"projectid":      "projectId",
		"createdat":      "createdAt",
		"updatedat":      "updatedAt",
	},
	"folder_tag": {
		"folderid": "folderId",
		"tagid":    "tagId",
	},
	"workflow_entity": {
		"createdat":      "createdAt",
		"updatedat":      "updatedAt",
		"versionid":      "versionId",
		"triggercount":   "triggerCount",
		"parentfolderid": "parentFolderId",
		"pindata":        "pinData",
		"staticdata":     "staticData",
	},
	"insights_metadata": {
		"metaid":       "metaId",
		"workflowid":   "workflowId",
		"projectid":    "projectId",
		"workflowname": "workflowName",
		"projectname":  "projectName",
	},
	"test_run": {
		"workflowid":   "workflowId",
		"triggercount": "triggerCount",
		"runcreatedat": "runCreatedAt",
		"completedat":  "completedAt",
		"errorcode":    "errorCode",
		"errordetails": "errorDetails",
	},
	"user": {
		"firstname":              "firstName",
		"lastname":               "lastName",
		"createdat":              "createdAt",
		"updatedat":              "updatedAt",
		"personalizationanswers": "personalizationAnswers",
		"roleslug":               "roleSlug",
		"ispending":              "isPending",
		"mfasecret":              "mfaSecret",
		"mfaenabled":             "mfaEnabled",
		"mfarecoverycodes":       "mfaRecoveryCodes",
	},
	"test_case_execution": {
		"testrunid":    "testRunId",
		"executionid":  "executionId",
		"errorcode":    "errorCode",
		"errordetails": "errorDetails",
		"runcreatedat": "runCreatedAt",
		"completedat":  "completedAt",
	},
	"project_relation": {
		"projectid": "projectId",
		"userid":    "userId",
	},
	"data_table": {
		"projectid": "projectId",
		"createdat": "createdAt",
		"updatedat": "updatedAt",
	},
	"data_table_column": {
		"datatableid": "dataTableId",
	},
	"role_scope": {
		"roleslug":  "roleSlug",
		"scopeslug": "scopeSlug",
	},
	"user_api_keys": {
		"userid":    "userId",
		"apikey":    "apiKey",
		"createdat": "createdAt",
		"updatedat": "updatedAt",
	},
	"insights_raw": {
		"metaid":    "metaId",
		"createdat": "createdAt",
	},
	"insights_by_period": {
		"metaid":     "metaId",
		"periodunit": "periodUnit",
		"periodfrom": "periodFrom",
		"periodto":   "periodTo",
	},
	"chat_hub_sessions": {
		"ownerid":      "ownerId",
		"credentialid": "credentialId",
		"workflowid":   "workflowId",
		"createdat":    "createdAt",
		"updatedat":    "updatedAt",
	},
	"workflow_dependency": {
		"workflowid":        "workflowId",
		"workflowversionid": "workflowVersionId",
		"dependencytype":    "dependencyType",
		"dependencykey":     "dependencyKey",
		"dependencyinfo":    "dependencyInfo",
	},
	"chat_hub_messages": {
		"sessionid":           "sessionId",
		"previousmessageid":   "previousMessageId",
		"revisionofmessageid": "revisionOfMessageId",
		"retryofmessageid":    "retryOfMessageId",
		"workflowid":          "workflowId",
		"executionid":         "executionId",
		"createdat":           "createdAt",
		"updatedat":           "updatedAt",
	},
}

// Destination columns stored as booleans. SQLite keeps them as 0/1.
var booleanColumns = map[string]bool{
	"active":        true,
	"finished":      true,
	"loadOnStartup": true,
	"systemRole":    true,
	"disabled":      true,
	"mfaEnabled":    true,
	"isManaged":     true,
	"isPending":     true,
	"isArchived":    true,
}

// Destination columns holding JSON documents.
var jsonColumns = map[string]bool{
	"nodes":        true,
	"connections":  true,
	"settings":     true,
	"staticData":   true,
	"pinData":      true,
	"meta":         true,
	"workflowData": true,
}

// MapColumn returns the destination column name for a source column.
// Names without a rename entry pass through unchanged.
func MapColumn(table, sourceColumn string) string {
	tableRenames, ok := renames[table]
	if !ok {
		return sourceColumn
	}
	if dest, ok := tableRenames[strings.ToLower(sourceColumn)]; ok {
		return dest
	}
	return sourceColumn
}

// RenameMap returns a copy of the rename entries for a table.
// The second result is false when the table has no rename map at all.
func RenameMap(table string) (map[string]string, bool) {
	tableRenames, ok := renames[table]
	if !ok {
		return nil, false
	}
	out := make(map[string]string, len(tableRenames))
	for k, v := range tableRenames {
		out[k] = v
	}
	return out, true
}

// IsBooleanColumn reports whether a destination column holds a boolean.
func IsBooleanColumn(column string) bool {
	return booleanColumns[column]
}

// IsJSONColumn reports whether a destination column holds a JSON document.
func IsJSONColumn(column string) bool {
	return jsonColumns[column]
}
