package graph

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// Placeholders recognized in a profile's value_format template.
const (
	TypePlaceholder    = "{value_type}"
	ContentPlaceholder = "{value_content}"
)

// Relationship row ID tags.
const (
	tagProcessRecord = "prr"
	tagProcessValue  = "pvr"
	tagRecordValue   = "rvr"
	tagValueValue    = "vvr"
	tagSourceProcess = "spr"
)

// keySep separates hashed key columns. The columns are derived IDs
// (prefix plus hex digits), profile-declared relationship types and
// process IDs, and decimal ordinals; extracted content is never hashed
// with it. Distinct column tuples collide only if a profile label
// itself contains the unit separator.
const keySep = "\x1f"

func hashID(prefix string, parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, keySep)))
	return prefix + "_" + hex.EncodeToString(sum[:])
}

// RecordID derives a record's identity from its identifier content.
func RecordID(prefix, identifier string) string {
	sum := sha256.Sum256([]byte(identifier))
	return prefix + "_" + hex.EncodeToString(sum[:])
}

// ValueID derives a value's identity from its type and content via the
// profile's value_format template.
func ValueID(prefix, format, valueType, content string) string {
	formatted := strings.ReplaceAll(format, TypePlaceholder, valueType)
	formatted = strings.ReplaceAll(formatted, ContentPlaceholder, content)
	sum := sha256.Sum256([]byte(formatted))
	return prefix + "_" + hex.EncodeToString(sum[:])
}

// NewProcessRecord builds a process→record row with its derived ID.
func NewProcessRecord(processID, recordID, relType string) ProcessRecordRow {
	return ProcessRecordRow{
		ID:               hashID(tagProcessRecord, relType, processID, recordID),
		ProcessID:        processID,
		RecordID:         recordID,
		RelationshipType: relType,
	}
}

// NewProcessValue builds a process→value row with its derived ID.
func NewProcessValue(processID, valueID, relType, confidence string) ProcessValueRow {
	return ProcessValueRow{
		ID:               hashID(tagProcessValue, relType, processID, valueID),
		ProcessID:        processID,
		ValueID:          valueID,
		RelationshipType: relType,
		Confidence:       confidence,
	}
}

// NewRecordValue builds a record→value row with its derived ID. The
// ordinal is part of the identity: the same value attached twice to one
// record at different positions is two distinct edges.
func NewRecordValue(recordID, valueID, relType string, ordinal int) RecordValueRow {
	return RecordValueRow{
		ID:               hashID(tagRecordValue, relType, recordID, valueID, strconv.Itoa(ordinal)),
		RecordID:         recordID,
		ValueID:          valueID,
		RelationshipType: relType,
		Ordinal:          ordinal,
	}
}

// NewSourceProcess builds a source→process row with its derived ID.
func NewSourceProcess(sourceID, processID, relType string) SourceProcessRow {
	return SourceProcessRow{
		ID:               hashID(tagSourceProcess, relType, sourceID, processID),
		SourceID:         sourceID,
		ProcessID:        processID,
		RelationshipType: relType,
	}
}

// NewValueValue builds a value→value row with its derived ID.
func NewValueValue(sourceID, targetID, relType string, ordinal int, confidence string) ValueValueRow {
	return ValueValueRow{
		ID:               hashID(tagValueValue, relType, sourceID, targetID, strconv.Itoa(ordinal)),
		SourceValueID:    sourceID,
		TargetValueID:    targetID,
		RelationshipType: relType,
		Ordinal:          ordinal,
		Confidence:       confidence,
	}
}
