package dialect

// MySQL covers every driver that uses positional ? placeholders, SQLite
// included.
type MySQL struct{}

func NewMySQLDialect() Dialect {
	return &MySQL{}
}

func (MySQL) Name() string {
	return "mysql"
}

func (MySQL) CountPlaceholders(sql string) int {
	n := 0
	walk(sql, false, func(sql string, i int) int {
		if sql[i] == '?' {
			n++
		}
		return 0
	})
	return n
}
