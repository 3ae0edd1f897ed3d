// Package salarygo predicts a salary from Age, Gender, Education Level,
// Job Title and Years of Experience.
//
// The repository has two entry points behind the salary command
// (cmd/salary): an offline training job and an HTTP inference service.
//
// # Training
//
//	salary train --data Salary_Data.csv --model salary_prediction_model.json
//
// prints the held-out metrics
//
//	RMSE: 10876.54
//	R2 Score: 0.912
//
// and writes a versioned JSON artifact holding the imputer statistics, the
// encoder vocabularies and the regression weights.
//
// # Serving
//
//	salary serve --model salary_prediction_model.json --addr 0.0.0.0:5000
//
//	curl -s localhost:5000/predict -d '{"Age":28,"Gender":"Female",
//	    "Education Level":"Master'"'"'s","Job Title":"Data Analyst",
//	    "Years of Experience":3}'
//	{"predicted_salary":63241.17}
//
// # Packages
//
//   - dataset: CSV and SQLite loaders, the salary schema, train/test split
//   - preprocessing: SimpleImputer, OneHotEncoder, OrdinalEncoder, ColumnTransformer
//   - linear: LinearRegression (SVD least squares)
//   - metrics: MSE, RMSE, MAE, R²
//   - pipeline: fitted preprocessor + model and the artifact format
//   - trainer: the training job
//   - server: GET /health and POST /predict
//   - config: YAML configuration
//   - core/model, core/parallel: estimator state, JSON persistence, errgroup helpers
//   - pkg/errors, pkg/log: typed errors and structured logging
package salarygo
