package database

import (
	"context"
	"fmt"
	"log"

	"sql_arena/internal/domain/model"
	"sql_arena/internal/domain/repository"

	"github.com/google/uuid"
)

// SeedProblems loads the starter problem set on first boot. Problems have no
// create API; the seed is the only write path.
func SeedProblems(ctx context.Context, problemRepo repository.ProblemRepository) error {
	count, err := problemRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("database.SeedProblems: %w", err)
	}
	if count > 0 {
		return nil
	}

	problems := []model.Problem{
		{
			Title:      "Select All Employees",
			Difficulty: model.DifficultyEasy,
			Description: "Write a query that returns every column for every row " +
				"in the employees table.",
			Tags:      []string{"basics", "select"},
			Companies: []string{"Acme Corp"},
			Schema: `CREATE TABLE employees (
  id INT PRIMARY KEY,
  name VARCHAR(100),
  department VARCHAR(50),
  salary INT
);`,
			ExpectedOutput: "id | name | department | salary\n1 | Alice | Engineering | 95000\n2 | Bob | Sales | 60000",
			Hints:          []string{"SELECT * returns every column.", "No WHERE clause is needed."},
		},
		{
			Title:      "Sum of Salaries by Department",
			Difficulty: model.DifficultyMedium,
			Description: "For each department, compute the total salary paid. " +
				"Return the department name and the total.",
			Tags:      []string{"aggregation", "group-by"},
			Companies: []string{"Initech"},
			Schema: `CREATE TABLE employees (
  id INT PRIMARY KEY,
  name VARCHAR(100),
  department VARCHAR(50),
  salary INT
);`,
			ExpectedOutput: "department | total\nEngineering | 180000\nSales | 120000",
			Hints:          []string{"Use SUM with GROUP BY.", "Alias the aggregate for readability."},
		},
		{
			Title:      "Join Orders with Customers",
			Difficulty: model.DifficultyMedium,
			Description: "Return each order id together with the name of the " +
				"customer who placed it.",
			Tags:      []string{"joins"},
			Companies: []string{"Globex"},
			Schema: `CREATE TABLE customers (
  id INT PRIMARY KEY,
  name VARCHAR(100)
);
CREATE TABLE orders (
  id INT PRIMARY KEY,
  customer_id INT REFERENCES customers(id),
  amount INT
);`,
			ExpectedOutput: "order_id | customer\n1 | Alice\n2 | Bob",
			Hints:          []string{"JOIN on orders.customer_id = customers.id."},
		},
		{
			Title:      "High Earners",
			Difficulty: model.DifficultyEasy,
			Description: "Select the names of employees whose salary is above " +
				"80000, ordered by salary descending.",
			Tags:      []string{"filtering", "order-by"},
			Companies: []string{"Acme Corp", "Initech"},
			Schema: `CREATE TABLE employees (
  id INT PRIMARY KEY,
  name VARCHAR(100),
  salary INT
);`,
			ExpectedOutput: "name\nAlice\nCarol",
			Hints:          []string{"WHERE salary > 80000", "ORDER BY salary DESC"},
		},
		{
			Title:      "Sum of Order Amounts per Customer with Join",
			Difficulty: model.DifficultyHard,
			Description: "For every customer, return their name and the total " +
				"amount across all of their orders. Customers without orders " +
				"should show a total of zero.",
			Tags:      []string{"joins", "aggregation"},
			Companies: []string{"Globex"},
			Schema: `CREATE TABLE customers (
  id INT PRIMARY KEY,
  name VARCHAR(100)
);
CREATE TABLE orders (
  id INT PRIMARY KEY,
  customer_id INT REFERENCES customers(id),
  amount INT
);`,
			ExpectedOutput: "customer | total\nAlice | 300\nBob | 150\nCarol | 0",
			Hints:          []string{"LEFT JOIN keeps customers without orders.", "COALESCE(SUM(amount), 0) handles missing rows."},
		},
	}

	for i := range problems {
		problems[i].ID = uuid.NewString()
		if err := problemRepo.Create(ctx, &problems[i]); err != nil {
			return fmt.Errorf("database.SeedProblems: %w", err)
		}
	}
	log.Printf("Seeded %d problems.", len(problems))
	return nil
}
