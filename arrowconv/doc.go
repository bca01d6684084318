// Package arrowconv bridges the ktable type model and column vectors to Apache Arrow.
//
// Types map onto Arrow as follows:
//
//	int32, int64, double, bool  Int32, Int64, Float64, Boolean
//	string                      String
//	blob                        LargeBinary
//	null                        Null
//	list<T>                     LargeList<T>
//	struct<A, B, ...>           Struct<"0": A, "1": B, ...>
//	logical(tag)<T>             knime.logical_type extension over T, serialized as tag
//	string[INT_KEY], blob[...]  knime.struct_dict_encoded extension over Struct<"0": key, "1": value>
//
// Dictionary encoded vectors keep their struct-dict layout in the extension storage: the key
// of every row in field "0" and the value only at the first row that uses the key in field "1".
// ToDictionary and FromDictionary convert the same vectors to and from native Arrow
// dictionary arrays.
//
// Record batches carry the row key as their first column, named RowKey, like encoded tables.
// ReadRecord and WriteRecord convert between encoded tables and record batches, and
// InsertSentinel and SentinelToMissing replace missing values of integer columns by a sentinel
// and back.
//
// Every array and record returned by this package must be released by the caller.
package arrowconv
