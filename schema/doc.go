// Package schema describes the columns of a table and their JSON form at the metadata boundary.
//
// A serialized schema always starts with the synthesized row key column:
//
//	{
//	  "schema": {"specs": ["string", "int"], "traits": [{"type": "simple", "traits": {"logical_type": ...}}, ...]},
//	  "columnNames": ["RowKey", "id"],
//	  "columnMetaData": [null, {"preferred_renderer": "..."}]
//	}
//
// Serialize wraps primitive column types with their value factory tags before writing and
// Deserialize removes both the row key column and the tags again, so that
// Deserialize(Serialize(s)) returns s.
package schema
