package dialect

import "strconv"

type Postgres struct{}

func NewPostgresDialect() Dialect {
	return &Postgres{}
}

func (Postgres) Name() string {
	return "postgres"
}

// CountPlaceholders returns the highest $n referenced, since Postgres lets a
// parameter appear more than once.
func (Postgres) CountPlaceholders(sql string) int {
	highest := 0
	walk(sql, true, func(sql string, i int) int {
		if sql[i] != '$' {
			return 0
		}
		j := i + 1
		for j < len(sql) && sql[j] >= '0' && sql[j] <= '9' {
			j++
		}
		if j == i+1 {
			return 0
		}
		if n, err := strconv.Atoi(sql[i+1 : j]); err == nil && n > highest {
			highest = n
		}
		return j - i - 1
	})
	return highest
}
