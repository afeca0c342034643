// esindex/mappings.go
package esindex

// Field mappings for the three document types. Ids, slugs, claim and
// login parts are keyword fields (exact match and aggregation only);
// display names are analyzed text. Claims and logins are nested objects
// so a query can require type+value (or provider+key) to co-occur within
// the same sub-item — mapping them as plain objects would flatten the
// lists into parallel arrays and allow false-positive matches across
// unrelated items.

func confirmationProperties() map[string]interface{} {
	return map[string]interface{}{
		"properties": map[string]interface{}{
			"value":       map[string]interface{}{"type": "text"},
			"normalized":  map[string]interface{}{"type": "keyword"},
			"confirmed":   map[string]interface{}{"type": "boolean"},
			"confirmedOn": map[string]interface{}{"type": "date"},
		},
	}
}

func claimsProperty() map[string]interface{} {
	return map[string]interface{}{
		"type": "nested",
		"properties": map[string]interface{}{
			"type":  map[string]interface{}{"type": "keyword"},
			"value": map[string]interface{}{"type": "keyword"},
		},
	}
}

// UserProperties returns the field mappings of the user document type.
func UserProperties() map[string]interface{} {
	return map[string]interface{}{
		"id":            map[string]interface{}{"type": "keyword"},
		"userName":      map[string]interface{}{"type": "text"},
		"normalized":    map[string]interface{}{"type": "keyword"},
		"email":         confirmationProperties(),
		"phoneNumber":   confirmationProperties(),
		"passwordHash":  map[string]interface{}{"type": "keyword"},
		"securityStamp": map[string]interface{}{"type": "keyword"},
		"claims":        claimsProperty(),
		"logins": map[string]interface{}{
			"type": "nested",
			"properties": map[string]interface{}{
				"loginProvider":       map[string]interface{}{"type": "keyword"},
				"providerKey":         map[string]interface{}{"type": "keyword"},
				"providerDisplayName": map[string]interface{}{"type": "keyword"},
			},
		},
		"isTwoFactorEnabled": map[string]interface{}{"type": "boolean"},
		"isLockoutEnabled":   map[string]interface{}{"type": "boolean"},
		"accessFailedCount":  map[string]interface{}{"type": "integer"},
		"lockoutEndDate":     map[string]interface{}{"type": "date"},
		"deleted":            map[string]interface{}{"type": "boolean"},
		"deletedOn":          map[string]interface{}{"type": "date"},
		"createdOn":          map[string]interface{}{"type": "date"},
	}
}

// RoleProperties returns the field mappings of the role document type.
func RoleProperties() map[string]interface{} {
	return map[string]interface{}{
		"id":         map[string]interface{}{"type": "keyword"},
		"name":       map[string]interface{}{"type": "text"},
		"normalized": map[string]interface{}{"type": "keyword"},
		"claims":     claimsProperty(),
		"deleted":    map[string]interface{}{"type": "boolean"},
		"deletedOn":  map[string]interface{}{"type": "date"},
		"createdOn":  map[string]interface{}{"type": "date"},
	}
}

// UserRoleProperties returns the field mappings of the user-role link
// document type.
func UserRoleProperties() map[string]interface{} {
	return map[string]interface{}{
		"id":                 map[string]interface{}{"type": "keyword"},
		"normalizedRoleName": map[string]interface{}{"type": "keyword"},
		"userId":             map[string]interface{}{"type": "keyword"},
		"createdOn":          map[string]interface{}{"type": "date"},
	}
}

func indexBody(shards, replicas int, properties map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"settings": map[string]interface{}{
			"number_of_shards":   shards,
			"number_of_replicas": replicas,
		},
		"mappings": map[string]interface{}{
			"properties": properties,
		},
	}
}
