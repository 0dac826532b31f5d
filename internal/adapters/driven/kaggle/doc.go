// Package kaggle implements driven.DatasetProvider against the Kaggle public API.
//
// Credentials are resolved in this order:
//
//  1. KAGGLE_API_TOKEN, sent as an OAuth2 bearer token
//  2. KAGGLE_USERNAME and KAGGLE_KEY, sent as HTTP basic auth
//  3. kaggle.json in $KAGGLE_CONFIG_DIR, or ~/.kaggle when unset
//
// Environment variables may come from a .env file in the working directory.
package kaggle
