package ktype

// Tags of the date and time value factories of the host platform.
var (
	LocalTimeTag     = timeFactoryTag("LocalTimeValueFactory")
	LocalDateTag     = timeFactoryTag("LocalDateValueFactory")
	LocalDateTimeTag = timeFactoryTag("LocalDateTimeValueFactory")
	DurationTag      = timeFactoryTag("DurationValueFactory")
	ZonedDateTimeTag = timeFactoryTag("ZonedDateTimeValueFactory2")
)

func timeFactoryTag(name string) string {
	return `{"value_factory_class":"org.knime.core.data.v2.time.` + name + `"}`
}

// datetimeStorage holds the storage layout of each datetime tag:
//
//	LocalTime      int64 nano of day
//	LocalDate      int64 day of epoch
//	LocalDateTime  struct<day of epoch, nano of day>
//	Duration       struct<seconds, nanos>
//	ZonedDateTime  struct<day of epoch, nano of day, offset seconds, zone id>
var datetimeStorage = map[string]func() Type{
	LocalTimeTag:     func() Type { return Int64() },
	LocalDateTag:     func() Type { return Int64() },
	LocalDateTimeTag: func() Type { return StructOf(Int64(), Int64()) },
	DurationTag:      func() Type { return StructOf(Int64(), Int32()) },
	ZonedDateTimeTag: func() Type { return StructOf(Int64(), Int64(), Int32(), String()) },
}

// DatetimeStorage returns the storage type of a datetime tag.
func DatetimeStorage(tag string) (Type, bool) {
	fn, ok := datetimeStorage[tag]
	if !ok {
		return nil, false
	}

	return fn(), true
}

// Datetime returns the logical type for a datetime tag, or nil if tag is not a datetime tag.
// The converter is left unset and resolved from a registry on use.
func Datetime(tag string) *Logical {
	storage, ok := DatetimeStorage(tag)
	if !ok {
		return nil
	}

	return NewLogical(tag, storage, nil)
}
