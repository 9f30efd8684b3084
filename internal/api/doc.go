// Package api provides the client for the Bloomberg market data statistics API,
// served through RapidAPI.
//
// Endpoint:
//   - GET https://bloomberg-market-and-financial-news.p.rapidapi.com/stock/get-statistics?id=aapl:us&template=STOCK
//
// Authentication uses the X-RapidAPI-Key and X-RapidAPI-Host headers.
package api
