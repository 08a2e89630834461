package classify

// WeatherAdjustment returns weather-conditional narrative paragraphs for the
// delivery platform and restaurant audiences. Branches are checked in order
// and the first match wins; a public holiday appends one extra sentence to
// the platform text regardless of which weather branch matched.
func WeatherAdjustment(tempMax, tempMin, precipitation float64, isHoliday bool) (platform, restaurant string) {
	avgTemp := (tempMax + tempMin) / 2

	switch {
	case precipitation >= 5 && avgTemp <= 10:
		platform = "Because the day is cold and rainy, deliveries are likely to take " +
			"longer than on a dry day. Plan for slightly longer ETAs and consider " +
			"concentrating riders in dense urban areas."
		restaurant = "Cold and rainy conditions usually mean fewer guests on the terrace " +
			"and more people ordering from home. You can rely more on delivery and indoor " +
			"seating and focus on warm, comforting dishes."

	case precipitation >= 5 && avgTemp > 10:
		platform = "With rainy but relatively mild weather, people are less inclined to " +
			"go out to eat, which tends to support delivery demand, especially in the evening."
		restaurant = "Rain will reduce terrace usage, so expect more indoor and delivery " +
			"orders. Make sure your indoor capacity and packaging for delivery orders are " +
			"well prepared."

	case precipitation < 1 && avgTemp >= 25:
		platform = "On very warm, dry days, people may spend more time outside during the " +
			"day and order more in the late evening when it is cooler. Expect demand to be " +
			"more concentrated in the evening."
		restaurant = "Hot weather can mean fewer people at lunch but more activity in the " +
			"evening. For stocks, expect more cold and refreshing dishes (salads, cold " +
			"drinks, ice cream) and relatively fewer heavy hot dishes."

	case precipitation < 1 && avgTemp > 10 && avgTemp < 25:
		platform = "The weather is mild and dry, which is fairly neutral for delivery. " +
			"Demand will be driven more by day of week and events than by weather alone."
		restaurant = "Mild and dry conditions mean terrace usage is attractive but not " +
			"extreme. Stocks can follow normal patterns without strong weather-driven shifts."

	case avgTemp <= 10 && precipitation < 5:
		platform = "It will be cold, even if not very rainy. People are more likely to " +
			"stay at home, which can support delivery demand, especially in the evening."
		restaurant = "Cold weather reduces terrace usage and increases the appeal of hot, " +
			"comforting dishes. Make sure you have enough ingredients for your main warm meals."

	default:
		platform = "Weather conditions are relatively neutral. Use the forecast mainly as " +
			"a guide vs the historical average and adjust based on local events or promotions."
		restaurant = "From a stock and staffing point of view, the weather does not require " +
			"strong adjustments beyond what the demand level already suggests."
	}

	if isHoliday {
		platform += " Since this is a public holiday, traffic patterns can be irregular " +
			"and certain areas may be busier. Drivers in cars or scooters should " +
			"anticipate possible traffic around shopping and leisure areas."
	}

	return platform, restaurant
}
