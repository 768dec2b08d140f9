package catalog

// Sample is the built-in catalog used when no product service is
// configured.
var Sample = Static{
	{ID: 1, Title: "Echo Dot (5th Gen) Smart Speaker with Alexa", Price: 49.99, Image: "https://images.unsplash.com/photo-1543512214-318c7553f230?w=400", Rating: 4, Reviews: 12847},
	{ID: 2, Title: "Kindle Paperwhite 16GB", Price: 149.99, Image: "https://images.unsplash.com/photo-1592496431122-2349e0fbc666?w=400", Rating: 5, Reviews: 8923},
	{ID: 3, Title: "Fire TV Stick 4K with Alexa Voice Remote", Price: 39.99, Image: "https://images.unsplash.com/photo-1593784991095-a205069470b6?w=400", Rating: 4, Reviews: 34521},
	{ID: 4, Title: "Wireless Noise Cancelling Headphones", Price: 279.99, Image: "https://images.unsplash.com/photo-1505740420928-5e560c06d30e?w=400", Rating: 5, Reviews: 5621},
	{ID: 5, Title: "Stainless Steel Electric Kettle 1.7L", Price: 24.99, Image: "https://images.unsplash.com/photo-1594213114663-d94db9b17125?w=400", Rating: 4, Reviews: 2210},
	{ID: 6, Title: "Ceramic Coffee Mug Set of 4", Price: 19.5, Image: "https://images.unsplash.com/photo-1514228742587-6b1558fcca3d?w=400", Rating: 3, Reviews: 418},
	{ID: 7, Title: "Mechanical Keyboard, Hot-Swappable", Price: 89, Image: "https://images.unsplash.com/photo-1587829741301-dc798b83add3?w=400", Rating: 4, Reviews: 1304},
	{ID: 8, Title: "Yoga Mat with Carrying Strap", Price: 29.95, Image: "https://images.unsplash.com/photo-1601925260368-ae2f83cf8b7f?w=400", Rating: 4, Reviews: 987},
}
