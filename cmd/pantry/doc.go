// Command pantry runs the pantry API and its maintenance tasks.
//
//	pantry serve                 # start the HTTP server
//	pantry migrate               # run pending migrations
//	pantry migrate:rollback
//	pantry migrate:status
//	pantry seed                  # load demo products and a recipe
//	pantry route:list            # list API routes
//	pantry recipes:available     # recipes that can be cooked now
//	pantry storage:add 1 2 kg    # add stock to product 1
package main
