package ids

// ConstidSet interns a fixed, compile-time-known list of names into table
// and seals the table immediately afterwards, returning the name->Id
// mapping. Architectures call this once at process start-up with their
// list of well-known cell-type and port names (e.g. "LUT4", "A", "CLK")
// so that later frontend-driven Intern calls never collide with, or
// renumber, the constid range.
func ConstidSet(table *Table, names []string) map[string]Id {
	out := make(map[string]Id, len(names))
	for _, n := range names {
		out[n] = table.Intern(n)
	}
	table.SealConstids()
	return out
}
