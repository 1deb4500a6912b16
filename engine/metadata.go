package engine

import (
	"github.com/lehigh-university-libraries/valuegraph/graph"
	"github.com/lehigh-university-libraries/valuegraph/profile"
)

// Metadata file names, emitted only with --create-metadata-files.
const (
	SourcesFile         = "sources.csv"
	ProcessesFile       = "processes.csv"
	SourceProcessesFile = "source_process_relationships.csv"
)

// SourceProcessRelationship is the relationship type linking a source
// to the process extracting from it.
const SourceProcessRelationship = "produces"

// MetadataEntry captures one task's source and process labels.
type MetadataEntry struct {
	Source    profile.SourceInfo
	Process   profile.ProcessInfo
	Timestamp string
}

// WriteMetadata emits sources.csv, processes.csv, and
// source_process_relationships.csv from the profiles a run used, one
// row set per distinct profile.
func WriteMetadata(dir string, entries []MetadataEntry) (err error) {
	sources, err := newTable(dir, SourcesFile, []string{"source_id", "name", "type"})
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sources.close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	processes, err := newTable(dir, ProcessesFile, []string{"process_id", "name", "version"})
	if err != nil {
		return err
	}
	defer func() {
		if cerr := processes.close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	rels, err := newTable(dir, SourceProcessesFile, []string{"source_process_id", "source_id", "process_id", "relationship_type", "timestamp"})
	if err != nil {
		return err
	}
	defer func() {
		if cerr := rels.close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	seen := make(map[string]struct{})
	for _, e := range entries {
		if _, dup := seen["src:"+e.Source.ID]; !dup {
			seen["src:"+e.Source.ID] = struct{}{}
			if werr := sources.w.Write([]string{e.Source.ID, e.Source.Name, e.Source.Type}); werr != nil {
				return werr
			}
		}
		if _, dup := seen["proc:"+e.Process.ID]; !dup {
			seen["proc:"+e.Process.ID] = struct{}{}
			if werr := processes.w.Write([]string{e.Process.ID, e.Process.Name, e.Process.Version}); werr != nil {
				return werr
			}
		}

		rel := graph.NewSourceProcess(e.Source.ID, e.Process.ID, SourceProcessRelationship)
		if _, dup := seen["rel:"+rel.ID]; !dup {
			seen["rel:"+rel.ID] = struct{}{}
			if werr := rels.w.Write([]string{rel.ID, rel.SourceID, rel.ProcessID, rel.RelationshipType, e.Timestamp}); werr != nil {
				return werr
			}
		}
	}

	return nil
}
