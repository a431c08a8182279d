// =============================================================================
// FEC to CSV Converter - Cover Decoder
// =============================================================================
//
// The cover is the first body record of a filing: the form line carrying
// filing-level summary data (committee, coverage dates, totals). It decodes
// exactly like any other record, through the registry by its own form code,
// but it is surfaced as its own type because every consumer wants it and
// downstream logic assumes it exists.
//
// A filing with no cover, or whose cover fails schema lookup or type
// coercion, is unusable; cover failures are fatal for the whole file.
//
// =============================================================================

package record

import (
	"github.com/ginjaninja78/FEC-to-CSV-conversion/internal/types"
)

// filerCommitteeIDFields are the schema names the committee identifier has
// carried across format versions, in preference order.
var filerCommitteeIDFields = []string{
	"filer_committee_id_number",
	"filer_committee_id",
}

// DecodeCover decodes the first body record of a filing as its cover.
//
// PARAMETERS:
//   - version: The filing's declared format version.
//   - raw: The first tokenized body record.
//   - registry: The schema lookup table.
//   - logger: Receives non-fatal decode anomalies.
//
// RETURNS:
//   - The decoded cover.
//   - Any error from decoding the underlying record. Callers treat a cover
//     error as fatal for the file.
func DecodeCover(version string, raw []string, registry types.SchemaRegistry, logger types.Logger) (*types.Cover, error) {
	rec, err := Decode(version, raw, registry, logger)
	if err != nil {
		return nil, err
	}

	cover := &types.Cover{
		Record:   rec,
		FormType: rec.Code(),
	}

	for _, name := range filerCommitteeIDFields {
		if v, ok := rec.Get(name); ok {
			cover.FilerCommitteeID = v.String()
			break
		}
	}

	return cover, nil
}
