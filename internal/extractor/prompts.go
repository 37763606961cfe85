package extractor

const systemPrompt = "You are a Persian real estate data extractor. Extract data and return ONLY valid JSON."

const extractionUserPrompt = `Extract from this text:
"%s"

Return JSON (omit fields that are not mentioned, never invent values):
{"transaction_type": "فروش/رهن و اجاره/پیش‌فروش",
"property_type": "آپارتمان/ویلا/زمین/مغازه",
"usage_type": "مسکونی/تجاری/اداری",
"price_total": number, "rent": number, "deposit": number,
"area": number, "bedroom_count": number,
"build_year": number, "floor": number,
"total_floors": number, "unit_count": number,
"has_parking": bool, "has_elevator": bool, "has_storage": bool,
"owner_name": "string", "owner_phone": "string",
"neighborhood": "string", "address": "string", "city": "string"}

Return ONLY the JSON object, no markdown fences or other text.`
