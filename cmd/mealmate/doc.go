// Command mealmate is the operator CLI for the MealMate backend. It applies
// schema migrations, lists recipes with their readiness and shares recipe
// digests through the configured messaging transport.
package main
