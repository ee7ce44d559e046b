// Package domain models the regional registry of private healthcare
// facilities and the steps that turn it into map-ready records.
//
// # Data Source
//
// The registry is the open-data extract of accredited private facilities
// published by the Tuscany region ("STRUTTURE-TOSCANA.csv"). Each row is one
// facility. The columns used here are:
//
//	Nominativo                facility name
//	DescrizioneTipoStruttura  facility-type category, e.g. "CASA DI CURA"
//	Indirizzo                 street address
//	comune                    municipality
//	prov_estesa               province, spelled out ("FIRENZE", not "FI")
//	Cap                       postal code
//	Telefono                  phone number
//
// Every other column is carried through untouched in [Facility.Extra].
//
// # Registry Conventions
//
// Postal codes:
//
//	Spreadsheet exports frequently store CAP as a float, so "50141" arrives as
//	"50141.0" whenever the column has blanks. [NormalizePostalCode] renders the
//	integer value back as a decimal string. Blank stays blank.
//
// Phone numbers:
//
//	Preserved verbatim. Leading zeros ("055 ...") and punctuation are
//	significant for Italian numbers and are never reformatted.
//
// Composite address:
//
//	"<Indirizzo>, <comune>, <prov_estesa>, <Cap>" in that fixed order. Empty
//	fields are kept as empty segments so every row has the same shape. See
//	[CompositeAddress].
//
// # Categories
//
// The facility type drives marker color and layer membership through a
// [Palette]: a closed, ordered enumeration of category names plus a default
// color for anything outside it. Categories outside the enumeration land in
// a catch-all layer named [OtherCategory].
//
// # Coordinates
//
// A facility either has both latitude and longitude or neither. The pair is
// modeled as a nil-able [*Coordinates]; only facilities with non-nil
// coordinates produce markers or downstream records.
package domain
