package parser

import "github.com/shirou/filemagic/internal/ast"

// baseTypes maps every DSL type keyword this engine supports to a template
// TypeKind. Keys are ordered longest-first at lookup time so that, e.g.,
// "beshort" is tried before a hypothetical shorter collision.
var baseTypes = map[string]ast.TypeKind{
	"byte":  {Category: ast.CategoryInteger, Width: 1, Signed: true, Endian: ast.NativeEndian},
	"ubyte": {Category: ast.CategoryInteger, Width: 1, Signed: false, Endian: ast.NativeEndian},

	"short":   {Category: ast.CategoryInteger, Width: 2, Signed: true, Endian: ast.NativeEndian},
	"ushort":  {Category: ast.CategoryInteger, Width: 2, Signed: false, Endian: ast.NativeEndian},
	"beshort": {Category: ast.CategoryInteger, Width: 2, Signed: true, Endian: ast.BigEndian},
	"leshort": {Category: ast.CategoryInteger, Width: 2, Signed: true, Endian: ast.LittleEndian},

	"long":    {Category: ast.CategoryInteger, Width: 4, Signed: true, Endian: ast.NativeEndian},
	"ulong":   {Category: ast.CategoryInteger, Width: 4, Signed: false, Endian: ast.NativeEndian},
	"belong":  {Category: ast.CategoryInteger, Width: 4, Signed: true, Endian: ast.BigEndian},
	"lelong":  {Category: ast.CategoryInteger, Width: 4, Signed: true, Endian: ast.LittleEndian},
	"melong":  {Category: ast.CategoryInteger, Width: 4, Signed: true, Endian: ast.MiddleEndian},

	"quad":   {Category: ast.CategoryInteger, Width: 8, Signed: true, Endian: ast.NativeEndian},
	"uquad":  {Category: ast.CategoryInteger, Width: 8, Signed: false, Endian: ast.NativeEndian},
	"bequad": {Category: ast.CategoryInteger, Width: 8, Signed: true, Endian: ast.BigEndian},
	"lequad": {Category: ast.CategoryInteger, Width: 8, Signed: true, Endian: ast.LittleEndian},

	"float":   {Category: ast.CategoryFloat, Width: 4, Signed: true, Endian: ast.NativeEndian},
	"befloat": {Category: ast.CategoryFloat, Width: 4, Signed: true, Endian: ast.BigEndian},
	"lefloat": {Category: ast.CategoryFloat, Width: 4, Signed: true, Endian: ast.LittleEndian},

	"double":   {Category: ast.CategoryFloat, Width: 8, Signed: true, Endian: ast.NativeEndian},
	"bedouble": {Category: ast.CategoryFloat, Width: 8, Signed: true, Endian: ast.BigEndian},
	"ledouble": {Category: ast.CategoryFloat, Width: 8, Signed: true, Endian: ast.LittleEndian},

	"date":   {Category: ast.CategoryInteger, Width: 4, Signed: true, Endian: ast.NativeEndian, Date: ast.DateUnixUTC},
	"bedate": {Category: ast.CategoryInteger, Width: 4, Signed: true, Endian: ast.BigEndian, Date: ast.DateUnixUTC},
	"ledate": {Category: ast.CategoryInteger, Width: 4, Signed: true, Endian: ast.LittleEndian, Date: ast.DateUnixUTC},
	"medate": {Category: ast.CategoryInteger, Width: 4, Signed: true, Endian: ast.MiddleEndian, Date: ast.DateUnixUTC},

	"ldate":   {Category: ast.CategoryInteger, Width: 4, Signed: true, Endian: ast.NativeEndian, Date: ast.DateUnixLocal},
	"beldate": {Category: ast.CategoryInteger, Width: 4, Signed: true, Endian: ast.BigEndian, Date: ast.DateUnixLocal},
	"leldate": {Category: ast.CategoryInteger, Width: 4, Signed: true, Endian: ast.LittleEndian, Date: ast.DateUnixLocal},
	"meldate": {Category: ast.CategoryInteger, Width: 4, Signed: true, Endian: ast.MiddleEndian, Date: ast.DateUnixLocal},

	"qdate":   {Category: ast.CategoryInteger, Width: 8, Signed: true, Endian: ast.NativeEndian, Date: ast.DateUnixUTC},
	"beqdate": {Category: ast.CategoryInteger, Width: 8, Signed: true, Endian: ast.BigEndian, Date: ast.DateUnixUTC},
	"leqdate": {Category: ast.CategoryInteger, Width: 8, Signed: true, Endian: ast.LittleEndian, Date: ast.DateUnixUTC},

	"qldate":   {Category: ast.CategoryInteger, Width: 8, Signed: true, Endian: ast.NativeEndian, Date: ast.DateUnixLocal},
	"beqldate": {Category: ast.CategoryInteger, Width: 8, Signed: true, Endian: ast.BigEndian, Date: ast.DateUnixLocal},
	"leqldate": {Category: ast.CategoryInteger, Width: 8, Signed: true, Endian: ast.LittleEndian, Date: ast.DateUnixLocal},

	"msdosdate":   {Category: ast.CategoryInteger, Width: 2, Signed: false, Endian: ast.LittleEndian, Date: ast.DateDOSDate},
	"lemsdosdate": {Category: ast.CategoryInteger, Width: 2, Signed: false, Endian: ast.LittleEndian, Date: ast.DateDOSDate},
	"bemsdosdate": {Category: ast.CategoryInteger, Width: 2, Signed: false, Endian: ast.BigEndian, Date: ast.DateDOSDate},

	"msdostime":   {Category: ast.CategoryInteger, Width: 2, Signed: false, Endian: ast.LittleEndian, Date: ast.DateDOSTime},
	"lemsdostime": {Category: ast.CategoryInteger, Width: 2, Signed: false, Endian: ast.LittleEndian, Date: ast.DateDOSTime},
	"bemsdostime": {Category: ast.CategoryInteger, Width: 2, Signed: false, Endian: ast.BigEndian, Date: ast.DateDOSTime},

	"string":     {Category: ast.CategoryString},
	"bestring16": {Category: ast.CategoryString, Wide: true, Endian: ast.BigEndian},
	"lestring16": {Category: ast.CategoryString, Wide: true, Endian: ast.LittleEndian},
	"pstring":    {Category: ast.CategoryPascalString, LengthPrefixWidth: 1, LengthPrefixEndian: ast.BigEndian},
	"regex":      {Category: ast.CategoryRegex},
	"search":     {Category: ast.CategorySearch, MaxSearchBytes: 8192},
	"default":    {Category: ast.CategoryDefault},
	"clear":      {Category: ast.CategoryClear},
	"use":        {Category: ast.CategoryUse},
	// name's Category is never consulted: a "name" rule is only ever reached
	// through Database.Named, and the splicing "use" rule evaluates only its
	// Children; the name rule itself, and its Message, are never evaluated.
	"name": {Category: ast.CategoryDefault},
}

// orderedTypeNames is baseTypes' keys sorted longest-first, computed once,
// so prefix matching never picks a shorter colliding keyword (there are
// none today, but new keywords are easy to add without re-deriving this).
var orderedTypeNames = sortedKeysByLenDesc(baseTypes)

func sortedKeysByLenDesc(m map[string]ast.TypeKind) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && len(names[j-1]) < len(names[j]); j-- {
			names[j-1], names[j] = names[j], names[j-1]
		}
	}
	return names
}
